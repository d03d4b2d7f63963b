package classfile

import "fmt"

// ErrorKind classifies what went wrong while decoding a class file.
type ErrorKind int

const (
	// ErrIO is a failure of the underlying reader, including truncation.
	ErrIO ErrorKind = iota
	// ErrFormat is structurally invalid data: bad magic, unknown tags.
	ErrFormat
	// ErrConstantPool is an index that does not resolve to an entry of
	// the required kind.
	ErrConstantPool
	// ErrDescriptor is a malformed field or method descriptor.
	ErrDescriptor
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrFormat:
		return "format"
	case ErrConstantPool:
		return "constant pool"
	case ErrDescriptor:
		return "descriptor"
	}
	return "unknown"
}

// ClassError is the failure of a class file decode. Decoding is total: any
// error discards the whole file.
type ClassError struct {
	Kind    ErrorKind
	Offset  int64
	Message string
	Err     error
}

func (e *ClassError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error at offset %d: %s: %v", e.Kind, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error at offset %d: %s", e.Kind, e.Offset, e.Message)
}

func (e *ClassError) Unwrap() error {
	return e.Err
}
