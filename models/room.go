package models

import (
	"encoding/json"
	"fmt"
	"time"

	"vacancy-backend/utils"
)

// RoomReservedKeys are owned by the service and never taken from caller input.
var RoomReservedKeys = []string{"id", "createdAt", "updatedAt"}

// Room is a rentable unit. Everything except the identifier and the
// timestamps is caller supplied and kept verbatim in Fields.
type Room struct {
	ID        int
	Fields    JSONB
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (r Room) Name() interface{} { return r.Fields["name"] }

func (r Room) Type() interface{} { return r.Fields["type"] }

func (r Room) Clone() Room {
	r.Fields = r.Fields.Clone()
	r.UpdatedAt = cloneTime(r.UpdatedAt)
	return r
}

func (r Room) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Fields)+3)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["id"] = r.ID
	putTimes(m, r.CreatedAt, r.UpdatedAt)
	return m
}

// MarshalJSON flattens Fields next to id/createdAt/updatedAt.
func (r Room) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toMap())
}

func (r *Room) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("room: %w", err)
	}
	id, ok := utils.PositiveInt(raw["id"])
	if !ok {
		return fmt.Errorf("room: invalid id %v", raw["id"])
	}
	delete(raw, "id")

	created := takeTime(raw, "createdAt")
	updated := takeTime(raw, "updatedAt")

	*r = Room{ID: id, Fields: JSONB(raw), UpdatedAt: updated}
	if created != nil {
		r.CreatedAt = *created
	}
	return nil
}
