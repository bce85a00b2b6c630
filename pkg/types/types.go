package types

import "encoding/json"

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ptr returns a pointer to the given value
func Ptr[T any](v T) *T {
	return &v
}

// Stringify returns the indented JSON representation of a value,
// or the error string if the value cannot be marshalled
func Stringify[T any](v T) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
