package models

import (
	"encoding/json"
	"fmt"
	"time"

	"vacancy-backend/utils"
)

// CustomerReservedKeys are never stored in Customer.Fields. roomName and
// roomType are derived on output and are dropped if a caller echoes them back.
var CustomerReservedKeys = []string{"id", "name", "phone", "roomId", "createdAt", "updatedAt", "roomName", "roomType"}

// Customer is an occupant, optionally linked to a Room.
type Customer struct {
	ID        int
	Name      string
	Phone     string
	RoomID    *int
	Fields    JSONB
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (c Customer) Clone() Customer {
	c.Fields = c.Fields.Clone()
	c.UpdatedAt = cloneTime(c.UpdatedAt)
	if c.RoomID != nil {
		id := *c.RoomID
		c.RoomID = &id
	}
	return c
}

// InRoom reports whether the customer references roomID.
func (c Customer) InRoom(roomID int) bool {
	return c.RoomID != nil && *c.RoomID == roomID
}

func (c Customer) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(c.Fields)+6)
	for k, v := range c.Fields {
		m[k] = v
	}
	m["id"] = c.ID
	if c.Name != "" {
		m["name"] = c.Name
	}
	if c.Phone != "" {
		m["phone"] = c.Phone
	}
	if c.RoomID != nil {
		m["roomId"] = *c.RoomID
	}
	putTimes(m, c.CreatedAt, c.UpdatedAt)
	return m
}

func (c Customer) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalJSON accepts the stored layout. Empty or non-string name and
// phone, and unexpected roomId or timestamp values, are kept in Fields.
func (c *Customer) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	id, ok := utils.PositiveInt(raw["id"])
	if !ok {
		return fmt.Errorf("customer: invalid id %v", raw["id"])
	}
	delete(raw, "id")

	out := Customer{ID: id}
	if s, ok := raw["name"].(string); ok && s != "" {
		out.Name = s
		delete(raw, "name")
	}
	if s, ok := raw["phone"].(string); ok && s != "" {
		out.Phone = s
		delete(raw, "phone")
	}
	if v, ok := raw["roomId"]; ok {
		if roomID, ok := utils.PositiveInt(v); ok {
			out.RoomID = &roomID
			delete(raw, "roomId")
		} else if v == nil {
			delete(raw, "roomId")
		}
	}

	if created := takeTime(raw, "createdAt"); created != nil {
		out.CreatedAt = *created
	}
	out.UpdatedAt = takeTime(raw, "updatedAt")
	out.Fields = JSONB(raw)

	*c = out
	return nil
}

// CustomerWithRoom is a customer enriched with its room's name and type.
// Both are nil when the customer has no room or the room does not exist.
type CustomerWithRoom struct {
	Customer
	RoomName interface{}
	RoomType interface{}
}

func (c CustomerWithRoom) MarshalJSON() ([]byte, error) {
	m := c.Customer.toMap()
	m["roomName"] = c.RoomName
	m["roomType"] = c.RoomType
	return json.Marshal(m)
}
