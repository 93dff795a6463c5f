package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// repository errors
const (
	ErrRecordNotFound = Error("record not found")
	ErrDuplicate      = Error("duplicate record")
)

// storage errors
const (
	ErrCrossDevice  = Error("cross-device link")
	ErrPathOutside  = Error("path escapes its root")
	ErrInvalidName  = Error("invalid name")
	ErrTargetExists = Error("target already exists")
)
