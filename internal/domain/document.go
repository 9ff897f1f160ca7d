package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document is an untyped JSON value stored verbatim in a jsonb column.
type Document []byte

func (d Document) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(d)) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return fmt.Errorf("domain.Document: UnmarshalJSON on nil pointer")
	}
	*d = append((*d)[:0], data...)
	return nil
}

func (d Document) Value() (driver.Value, error) {
	if d.IsEmpty() {
		return nil, nil
	}
	return string(d), nil
}

func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append(Document(nil), v...)
	case string:
		*d = Document(v)
	default:
		return fmt.Errorf("domain.Document: cannot scan %T", src)
	}
	return nil
}

// IsEmpty reports whether the document is missing or JSON null.
func (d Document) IsEmpty() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Decode unmarshals the document into an untyped value. Invalid JSON yields nil.
func (d Document) Decode() any {
	if d.IsEmpty() {
		return nil
	}
	var out any
	if err := json.Unmarshal(d, &out); err != nil {
		return nil
	}
	return out
}
