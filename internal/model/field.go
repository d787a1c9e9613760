package model

import (
    "bytes"
    "encoding/json"
)

// Field is a JSON value that remembers whether it was present in the
// payload and whether it was null.  It gives PATCH-style semantics to
// plain struct binding: absent fields keep Set == false.
type Field[T any] struct {
    Set   bool
    Valid bool
    Value T
}

// UnmarshalJSON is only invoked for keys present in the document.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
    f.Set = true
    if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
        f.Valid = false
        return nil
    }
    if err := json.Unmarshal(b, &f.Value); err != nil {
        return err
    }
    f.Valid = true
    return nil
}

// IsNull reports an explicit JSON null.
func (f Field[T]) IsNull() bool { return f.Set && !f.Valid }

// Ptr returns the value as a pointer, nil when null.
func (f Field[T]) Ptr() *T {
    if !f.Valid {
        return nil
    }
    v := f.Value
    return &v
}

// Of builds a present, non-null Field.
func Of[T any](v T) Field[T] { return Field[T]{Set: true, Valid: true, Value: v} }

// Null builds a present, explicitly null Field.
func Null[T any]() Field[T] { return Field[T]{Set: true} }
