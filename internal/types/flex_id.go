package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is a primary-key id that can be unmarshaled from either a JSON
// number or a JSON string. Preference updates arrive from form-backed
// frontends that sometimes serialize checkbox values as strings.
type FlexID uint

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("FlexID: invalid id string %q: %w", s, err)
		}
		*f = FlexID(val)
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint(f))
}

// Uint converts FlexID back to uint.
func (f FlexID) Uint() uint {
	return uint(f)
}
