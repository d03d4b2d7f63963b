package java

import "github.com/emilycares/java-lsp/java/parser"

// ClassKind tells which flavor of type declaration a Class came from.
type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// Class is the declaration model shared by the source and class-file
// front-ends. Equality is structural.
type Class struct {
	Name       string
	Package    string
	Access     Access
	Kind       ClassKind
	SuperClass string
	Interfaces []string
	Fields     []Field
	Methods    []Method
}

// FullName is the dotted fully-qualified name, or the simple name when no
// package is known.
func (c *Class) FullName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

type Method struct {
	Name       string
	Access     Access
	ReturnType JType
	Parameters []Parameter
}

type Parameter struct {
	Name string
	Type JType
}

func (p Parameter) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return p.Type.String() + " " + p.Name
}

type Field struct {
	Name   string
	Access Access
	Type   JType
}

// Equal compares classes structurally.
func (c *Class) Equal(other *Class) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Name != other.Name || c.Package != other.Package ||
		c.Access != other.Access || c.Kind != other.Kind ||
		c.SuperClass != other.SuperClass {
		return false
	}
	if len(c.Interfaces) != len(other.Interfaces) ||
		len(c.Fields) != len(other.Fields) ||
		len(c.Methods) != len(other.Methods) {
		return false
	}
	for i := range c.Interfaces {
		if c.Interfaces[i] != other.Interfaces[i] {
			return false
		}
	}
	for i := range c.Fields {
		if c.Fields[i].Name != other.Fields[i].Name ||
			c.Fields[i].Access != other.Fields[i].Access ||
			!c.Fields[i].Type.Equal(other.Fields[i].Type) {
			return false
		}
	}
	for i := range c.Methods {
		if !c.Methods[i].Equal(other.Methods[i]) {
			return false
		}
	}
	return true
}

func (m Method) Equal(other Method) bool {
	if m.Name != other.Name || m.Access != other.Access ||
		!m.ReturnType.Equal(other.ReturnType) ||
		len(m.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range m.Parameters {
		if m.Parameters[i].Name != other.Parameters[i].Name ||
			!m.Parameters[i].Type.Equal(other.Parameters[i].Type) {
			return false
		}
	}
	return true
}

// Diagnostic is a recovered syntax error with its source range.
type Diagnostic struct {
	Span    parser.Span
	Message string
}
