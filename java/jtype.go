package java

import (
	"fmt"
	"strings"

	"github.com/emilycares/java-lsp/classfile"
)

// JTypeKind discriminates the closed set of declaration-level types.
type JTypeKind int

const (
	KindVoid JTypeKind = iota
	KindByte
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindClass
	KindArray
)

// JType is a declaration-level Java type. Class types carry their dotted
// name; array types carry their element type. Generics are erased before
// this layer.
type JType struct {
	Kind JTypeKind
	Name string
	Elem *JType
}

func Void() JType    { return JType{Kind: KindVoid} }
func Byte() JType    { return JType{Kind: KindByte} }
func Char() JType    { return JType{Kind: KindChar} }
func Double() JType  { return JType{Kind: KindDouble} }
func Float() JType   { return JType{Kind: KindFloat} }
func Int() JType     { return JType{Kind: KindInt} }
func Long() JType    { return JType{Kind: KindLong} }
func Short() JType   { return JType{Kind: KindShort} }
func Boolean() JType { return JType{Kind: KindBoolean} }

func ClassOf(name string) JType {
	return JType{Kind: KindClass, Name: name}
}

func ArrayOf(elem JType) JType {
	return JType{Kind: KindArray, Elem: &elem}
}

func (t JType) Equal(other JType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindClass:
		return t.Name == other.Name
	case KindArray:
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	}
	return true
}

func (t JType) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindBoolean:
		return "boolean"
	case KindClass:
		return t.Name
	case KindArray:
		if t.Elem == nil {
			return "[]"
		}
		return t.Elem.String() + "[]"
	}
	return "unknown"
}

func (t JType) IsPrimitive() bool {
	return t.Kind != KindClass && t.Kind != KindArray
}

// PrimitiveType maps a source-level keyword to its JType; ok is false for
// anything that is not a primitive or void.
func PrimitiveType(name string) (JType, bool) {
	switch name {
	case "void":
		return Void(), true
	case "byte":
		return Byte(), true
	case "char":
		return Char(), true
	case "double":
		return Double(), true
	case "float":
		return Float(), true
	case "int":
		return Int(), true
	case "long":
		return Long(), true
	case "short":
		return Short(), true
	case "boolean":
		return Boolean(), true
	}
	return JType{}, false
}

func descriptorError(desc string, msg string) error {
	return &classfile.ClassError{
		Kind:    classfile.ErrDescriptor,
		Message: fmt.Sprintf("%s in descriptor %q", msg, desc),
	}
}

// ParseFieldDescriptor decodes a single JVM type descriptor, e.g. "I",
// "[Ljava/lang/String;". The whole input must be consumed.
func ParseFieldDescriptor(desc string) (JType, error) {
	t, rest, err := parseDescriptor(desc, desc)
	if err != nil {
		return JType{}, err
	}
	if rest != "" {
		return JType{}, descriptorError(desc, "trailing data")
	}
	return t, nil
}

// ParseMethodDescriptor decodes a JVM method descriptor, e.g.
// "(I[Ljava/lang/String;)V", into its parameter types and return type.
func ParseMethodDescriptor(desc string) (params []JType, ret JType, err error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, JType{}, descriptorError(desc, "missing '('")
	}
	rest := desc[1:]
	for !strings.HasPrefix(rest, ")") {
		if rest == "" {
			return nil, JType{}, descriptorError(desc, "unterminated parameter list")
		}
		var t JType
		t, rest, err = parseDescriptor(rest, desc)
		if err != nil {
			return nil, JType{}, err
		}
		params = append(params, t)
	}
	rest = rest[1:]
	ret, rest, err = parseDescriptor(rest, desc)
	if err != nil {
		return nil, JType{}, err
	}
	if rest != "" {
		return nil, JType{}, descriptorError(desc, "trailing data")
	}
	return params, ret, nil
}

func parseDescriptor(s, whole string) (JType, string, error) {
	if s == "" {
		return JType{}, "", descriptorError(whole, "unexpected end")
	}
	switch s[0] {
	case 'V':
		return Void(), s[1:], nil
	case 'B':
		return Byte(), s[1:], nil
	case 'C':
		return Char(), s[1:], nil
	case 'D':
		return Double(), s[1:], nil
	case 'F':
		return Float(), s[1:], nil
	case 'I':
		return Int(), s[1:], nil
	case 'J':
		return Long(), s[1:], nil
	case 'S':
		return Short(), s[1:], nil
	case 'Z':
		return Boolean(), s[1:], nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return JType{}, "", descriptorError(whole, "unterminated class reference")
		}
		name := strings.ReplaceAll(s[1:end], "/", ".")
		if name == "" {
			return JType{}, "", descriptorError(whole, "empty class reference")
		}
		return ClassOf(name), s[end+1:], nil
	case '[':
		elem, rest, err := parseDescriptor(s[1:], whole)
		if err != nil {
			return JType{}, "", err
		}
		return ArrayOf(elem), rest, nil
	default:
		return JType{}, "", descriptorError(whole, fmt.Sprintf("unknown type tag %q", s[0]))
	}
}
