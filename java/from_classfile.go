package java

import (
	"io"
	"os"
	"strings"

	"github.com/emilycares/java-lsp/classfile"
)

// LoadClass decodes class file bytes into the declaration model. Like the
// decode itself, the mapping is all-or-nothing: a dangling pool reference
// or malformed descriptor fails the whole class.
func LoadClass(data []byte) (*Class, error) {
	cf, err := classfile.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return classFromClassFile(cf)
}

// LoadClassReader decodes a class file from a stream.
func LoadClassReader(r io.Reader) (*Class, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return classFromClassFile(cf)
}

// LoadClassFile decodes a class file from disk.
func LoadClassFile(path string) (*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &classfile.ClassError{Kind: classfile.ErrIO, Message: "opening class file", Err: err}
	}
	defer f.Close()
	return LoadClassReader(f)
}

func classFromClassFile(cf *classfile.ClassFile) (*Class, error) {
	internal, err := cf.ClassName()
	if err != nil {
		return nil, err
	}
	pkg, simple := splitClassName(internalToSourceName(internal))

	class := &Class{
		Name:    simple,
		Package: pkg,
		// At class level the 0x20 bit is the historical ACC_SUPER
		// marker, not a modifier.
		Access: accessFromFlags(cf.AccessFlags) &^ AccessSuper,
		Kind:   classKindOf(cf),
	}

	super, err := cf.SuperClassName()
	if err != nil {
		return nil, err
	}
	if super != "" {
		class.SuperClass = internalToSourceName(super)
	}

	ifaces, err := cf.InterfaceNames()
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		class.Interfaces = append(class.Interfaces, internalToSourceName(iface))
	}

	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.IsSynthetic() {
			continue
		}
		typ, err := ParseFieldDescriptor(field.Descriptor)
		if err != nil {
			return nil, err
		}
		class.Fields = append(class.Fields, Field{
			Name:   field.Name,
			Access: accessFromFlags(field.AccessFlags),
			Type:   typ,
		})
	}

	for i := range cf.Methods {
		method := &cf.Methods[i]
		if method.IsSynthetic() || method.AccessFlags&classfile.AccBridge != 0 {
			continue
		}
		if method.IsConstructor() || method.IsStaticInitializer() {
			continue
		}
		params, ret, err := ParseMethodDescriptor(method.Descriptor)
		if err != nil {
			return nil, err
		}
		m := Method{
			Name: method.Name,
			// On methods 0x40 and 0x80 are the ACC_BRIDGE and
			// ACC_VARARGS markers, not volatile/transient.
			Access:     accessFromFlags(method.AccessFlags) &^ (AccessVolatile | AccessTransient),
			ReturnType: ret,
		}
		for _, p := range params {
			m.Parameters = append(m.Parameters, Parameter{Type: p})
		}
		class.Methods = append(class.Methods, m)
	}

	return class, nil
}

func classKindOf(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.IsAnnotation():
		return ClassKindAnnotation
	case cf.IsInterface():
		return ClassKindInterface
	case cf.IsEnum():
		return ClassKindEnum
	default:
		return ClassKindClass
	}
}

// internalToSourceName turns "java/lang/String" into "java.lang.String".
func internalToSourceName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

func splitClassName(full string) (pkg, simple string) {
	lastDot := strings.LastIndex(full, ".")
	if lastDot == -1 {
		return "", full
	}
	return full[:lastDot], full[lastDot+1:]
}
