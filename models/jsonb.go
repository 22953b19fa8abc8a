package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vacancy-backend/utils"
)

// JSONB holds the free-form attributes a caller attaches to a record.
type JSONB map[string]interface{}

// Clone returns a shallow copy; a nil map stays nil.
func (j JSONB) Clone() JSONB {
	if j == nil {
		return nil
	}
	out := make(JSONB, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// Without returns a copy of j minus the given keys.
func (j JSONB) Without(keys ...string) JSONB {
	out := j.Clone()
	if out == nil {
		out = JSONB{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	case nil:
		*j = nil
		return nil
	default:
		return fmt.Errorf("JSONB: unsupported type %T", value)
	}
}

var errNotObject = errors.New("expected a JSON object")

func decodeObject(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}
	return raw, nil
}

// takeTime removes key from raw when it holds a timestamp and returns it.
// Values that are not timestamps stay in raw untouched; null is dropped.
func takeTime(raw map[string]interface{}, key string) *time.Time {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if v == nil {
		delete(raw, key)
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return nil
	}
	delete(raw, key)
	return &t
}

func putTimes(m map[string]interface{}, created time.Time, updated *time.Time) {
	if !created.IsZero() {
		m["createdAt"] = utils.FormatTimestamp(created)
	}
	if updated != nil {
		m["updatedAt"] = utils.FormatTimestamp(*updated)
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
