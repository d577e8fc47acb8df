package structs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// InvalidFieldError is returned by custom JSON decoders for malformed fields.
type InvalidFieldError struct {
	Field   string
	Message string
}

func (e *InvalidFieldError) Error() string {
	return e.Field + " " + e.Message
}

// OptionalID decodes a table reference given as a positive number, a numeric
// string, an empty string or null. Anything else is a validation error.
type OptionalID struct {
	Value int64
	Set   bool
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	*o = OptionalID{}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &InvalidFieldError{Field: "table_id", Message: "must be a positive integer"}
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return &InvalidFieldError{Field: "table_id", Message: "must be a positive integer"}
	}

	o.Value = id
	o.Set = true
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.Value, 10)), nil
}

// Ptr returns nil when no id was supplied.
func (o OptionalID) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
