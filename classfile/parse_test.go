package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// classBuilder assembles synthetic class files for tests.
type classBuilder struct {
	pool    [][]byte
	slots   int
	flags   AccessFlags
	this    uint16
	super   uint16
	ifaces  []uint16
	fields  [][]byte
	methods [][]byte
}

func newClassBuilder() *classBuilder {
	return &classBuilder{}
}

func (b *classBuilder) addUtf8(s string) uint16 {
	buf := []byte{byte(ConstantUtf8)}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	buf = append(buf, s...)
	b.pool = append(b.pool, buf)
	b.slots++
	return uint16(b.slots)
}

func (b *classBuilder) addClass(name string) uint16 {
	nameIndex := b.addUtf8(name)
	buf := []byte{byte(ConstantClass)}
	buf = binary.BigEndian.AppendUint16(buf, nameIndex)
	b.pool = append(b.pool, buf)
	b.slots++
	return uint16(b.slots)
}

func (b *classBuilder) addLong(v uint64) uint16 {
	buf := []byte{byte(ConstantLong)}
	buf = binary.BigEndian.AppendUint64(buf, v)
	b.pool = append(b.pool, buf)
	b.slots += 2
	return uint16(b.slots - 1)
}

func (b *classBuilder) addRaw(raw []byte, slots int) uint16 {
	b.pool = append(b.pool, raw)
	b.slots += slots
	return uint16(b.slots)
}

func (b *classBuilder) setClass(name string, flags AccessFlags) {
	b.this = b.addClass(name)
	b.flags = flags
}

func (b *classBuilder) setSuper(name string) {
	b.super = b.addClass(name)
}

func (b *classBuilder) addInterface(name string) {
	b.ifaces = append(b.ifaces, b.addClass(name))
}

func (b *classBuilder) member(flags AccessFlags, name, descriptor string) []byte {
	nameIndex := b.addUtf8(name)
	descriptorIndex := b.addUtf8(descriptor)
	var buf []byte
	buf = binary.BigEndian.AppendUint16(buf, uint16(flags))
	buf = binary.BigEndian.AppendUint16(buf, nameIndex)
	buf = binary.BigEndian.AppendUint16(buf, descriptorIndex)
	buf = binary.BigEndian.AppendUint16(buf, 0) // attributes
	return buf
}

func (b *classBuilder) addField(flags AccessFlags, name, descriptor string) {
	b.fields = append(b.fields, b.member(flags, name, descriptor))
}

func (b *classBuilder) addMethod(flags AccessFlags, name, descriptor string) {
	b.methods = append(b.methods, b.member(flags, name, descriptor))
}

func (b *classBuilder) bytes() []byte {
	var buf []byte
	buf = binary.BigEndian.AppendUint32(buf, Magic)
	buf = binary.BigEndian.AppendUint16(buf, 0)  // minor
	buf = binary.BigEndian.AppendUint16(buf, 65) // major, Java 21
	buf = binary.BigEndian.AppendUint16(buf, uint16(b.slots+1))
	for _, entry := range b.pool {
		buf = append(buf, entry...)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(b.flags))
	buf = binary.BigEndian.AppendUint16(buf, b.this)
	buf = binary.BigEndian.AppendUint16(buf, b.super)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(b.ifaces)))
	for _, idx := range b.ifaces {
		buf = binary.BigEndian.AppendUint16(buf, idx)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(b.fields)))
	for _, f := range b.fields {
		buf = append(buf, f...)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(b.methods)))
	for _, m := range b.methods {
		buf = append(buf, m...)
	}
	buf = binary.BigEndian.AppendUint16(buf, 0) // attributes
	return buf
}

func buildTestClass() []byte {
	b := newClassBuilder()
	b.setClass("com/example/Greeter", AccPublic|AccSuper)
	b.setSuper("java/lang/Object")
	b.addInterface("java/lang/Runnable")
	b.addField(AccPrivate|AccFinal, "name", "Ljava/lang/String;")
	b.addField(AccPublic|AccStatic|AccFinal, "LIMIT", "I")
	b.addMethod(AccPublic, "<init>", "(Ljava/lang/String;)V")
	b.addMethod(AccPublic, "run", "()V")
	b.addMethod(AccPublic, "greet", "(I[Ljava/lang/String;)Ljava/lang/String;")
	return b.bytes()
}

func TestParse(t *testing.T) {
	cf, err := ParseBytes(buildTestClass())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	t.Run("class name", func(t *testing.T) {
		name, err := cf.ClassName()
		if err != nil {
			t.Fatal(err)
		}
		if name != "com/example/Greeter" {
			t.Errorf("ClassName() = %q, want %q", name, "com/example/Greeter")
		}
	})

	t.Run("super class", func(t *testing.T) {
		name, err := cf.SuperClassName()
		if err != nil {
			t.Fatal(err)
		}
		if name != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", name, "java/lang/Object")
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		names, err := cf.InterfaceNames()
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 1 || names[0] != "java/lang/Runnable" {
			t.Errorf("InterfaceNames() = %v, want [java/lang/Runnable]", names)
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(cf.Fields) != 2 {
			t.Fatalf("expected 2 fields, got %d", len(cf.Fields))
		}
		name := cf.GetField("name")
		if name == nil {
			t.Fatal("field name not found")
		}
		if !name.IsPrivate() || !name.IsFinal() {
			t.Error("name should be private final")
		}
		if name.Descriptor != "Ljava/lang/String;" {
			t.Errorf("name descriptor = %q", name.Descriptor)
		}
	})

	t.Run("methods", func(t *testing.T) {
		if len(cf.Methods) != 3 {
			t.Fatalf("expected 3 methods, got %d", len(cf.Methods))
		}
		init := cf.GetMethod("<init>", "")
		if init == nil {
			t.Fatal("constructor not found")
		}
		if !init.IsConstructor() {
			t.Error("IsConstructor() = false")
		}
		greet := cf.GetMethod("greet", "(I[Ljava/lang/String;)Ljava/lang/String;")
		if greet == nil {
			t.Fatal("greet not found")
		}
		if !greet.IsPublic() {
			t.Error("greet should be public")
		}
	})

	t.Run("flags", func(t *testing.T) {
		if !cf.IsClass() || cf.IsInterface() || cf.IsEnum() {
			t.Error("expected a plain class")
		}
		if !cf.AccessFlags.IsPublic() {
			t.Error("expected a public class")
		}
	})
}

func TestParseBadMagic(t *testing.T) {
	data := buildTestClass()
	data[0] = 0xDE
	_, err := ParseBytes(data)
	var ce *ClassError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClassError, got %v", err)
	}
	if ce.Kind != ErrFormat {
		t.Errorf("kind = %v, want %v", ce.Kind, ErrFormat)
	}
}

func TestParseUnknownPoolTag(t *testing.T) {
	b := newClassBuilder()
	b.setClass("A", AccPublic)
	b.addRaw([]byte{99, 0, 0}, 1)
	_, err := ParseBytes(b.bytes())
	var ce *ClassError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClassError, got %v", err)
	}
	if ce.Kind != ErrFormat {
		t.Errorf("kind = %v, want %v", ce.Kind, ErrFormat)
	}
}

func TestParseDanglingThisClass(t *testing.T) {
	b := newClassBuilder()
	b.setClass("A", AccPublic)
	data := b.bytes()
	// Overwrite this_class with an out-of-range index. It sits right after
	// magic, version, pool, and access flags.
	poolLen := 0
	for _, e := range b.pool {
		poolLen += len(e)
	}
	at := 4 + 2 + 2 + 2 + poolLen + 2
	binary.BigEndian.PutUint16(data[at:], 999)

	_, err := ParseBytes(data)
	var ce *ClassError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClassError, got %v", err)
	}
	if ce.Kind != ErrConstantPool {
		t.Errorf("kind = %v, want %v", ce.Kind, ErrConstantPool)
	}
}

func TestParseTruncatedAtEveryPrefix(t *testing.T) {
	data := buildTestClass()
	for n := 0; n < len(data); n++ {
		_, err := ParseBytes(data[:n])
		if err == nil {
			t.Fatalf("truncation to %d bytes parsed without error", n)
		}
		var ce *ClassError
		if !errors.As(err, &ce) {
			t.Fatalf("truncation to %d bytes: expected *ClassError, got %v", n, err)
		}
	}
}

func TestParseLongTakesTwoSlots(t *testing.T) {
	b := newClassBuilder()
	b.addLong(1 << 40)
	b.setClass("A", AccPublic)
	cf, err := ParseBytes(b.bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	name, err := cf.ClassName()
	if err != nil {
		t.Fatal(err)
	}
	if name != "A" {
		t.Errorf("ClassName() = %q, want %q", name, "A")
	}
}

func TestModifiedUtf8(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"two byte nul", []byte{0xC0, 0x80}, "\x00"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"three byte", []byte{0xE2, 0x82, 0xAC}, "€"},
		{"surrogate pair", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB0, 0x80}, "\U0001F400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeModifiedUtf8(tt.raw); got != tt.want {
				t.Errorf("decodeModifiedUtf8(% X) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseReaderError(t *testing.T) {
	_, err := Parse(bytes.NewReader(nil))
	var ce *ClassError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClassError, got %v", err)
	}
	if ce.Kind != ErrIO {
		t.Errorf("kind = %v, want %v", ce.Kind, ErrIO)
	}
}
