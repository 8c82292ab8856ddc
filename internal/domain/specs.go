package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SpecMap is the free-form attribute bag of a product: every spreadsheet
// column outside the standard set becomes one entry. A nil map means the
// product has no specifications and is distinct from an empty map.
type SpecMap map[string]string

// Canonical returns the serialized form used for structural comparison:
// JSON with lexicographically sorted keys, or the empty string for nil.
// A present-but-empty map canonicalizes to "{}", so nil never equals {}.
func (m SpecMap) Canonical() string {
	if m == nil {
		return ""
	}
	// encoding/json sorts map keys
	b, err := json.Marshal(m)
	if err != nil {
		// string-valued map cannot fail to marshal
		return ""
	}
	return string(b)
}

// Equal reports whether two attribute maps are structurally identical:
// same key set, same value per key, order-independent.
func (m SpecMap) Equal(other SpecMap) bool {
	if (m == nil) != (other == nil) {
		return false
	}
	return m.Canonical() == other.Canonical()
}

// Value implements driver.Valuer. nil maps persist as SQL NULL.
func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *SpecMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SpecMap", src)
	}
	return json.Unmarshal(data, m)
}
