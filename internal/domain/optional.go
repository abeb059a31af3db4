package domain

import "encoding/json"

// Optional is a tri-state JSON field used by partial updates. A field
// decoded from JSON is in exactly one of three states:
//
//   - absent:  Set == false — the stored value must be preserved
//   - null:    Set == true, Valid == false — the stored value is cleared
//   - value:   Set == true, Valid == true — the stored value is replaced
//
// The zero value is the absent state, so an Optional field left untouched
// by json.Unmarshal correctly reports absent.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NewOptional returns an Optional holding the given value.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: value}
}

// NewOptionalNull returns an Optional in the explicit-null state.
func NewOptionalNull[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the
// field is present in the document, which is what distinguishes the null
// state from the absent state.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler. Absent and null states both
// serialize as null; the value state serializes the value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a pointer, or nil in the absent/null states.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
