package shared

import "encoding/json"

// Optional is a tri-state partial-update cell. It distinguishes a field
// that was absent from the payload (Present == false) from one that was
// explicitly set to null (Present == true, Value == nil), which is how
// nullable fields are cleared.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Null returns an Optional that is present but null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// Get returns the carried value and whether one is present and non-null.
func (o Optional[T]) Get() (T, bool) {
	if !o.Present || o.Value == nil {
		var zero T
		return zero, false
	}
	return *o.Value, true
}

// IsNull reports whether the field was explicitly set to null.
func (o Optional[T]) IsNull() bool {
	return o.Present && o.Value == nil
}

// UnmarshalJSON is only invoked for fields present in the payload, so
// Present flips to true exactly when the field was mentioned.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
