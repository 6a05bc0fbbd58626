// Package entity defines the normalized domain entities flowing through the
// export pipeline, along with the loosely-typed raw form they are parsed
// from. Normalized entities are immutable value objects: every field is
// present, trimmed, and type-correct once validation has produced one.
package entity

// User is a normalized user record.
type User struct {
	ID   int64
	Name string
}
