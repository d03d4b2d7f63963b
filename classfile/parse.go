package classfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

type reader struct {
	r      io.Reader
	offset int64
	err    error
}

func (r *reader) readU1() uint8 {
	buf := r.read(1)
	if buf == nil {
		return 0
	}
	return buf[0]
}

func (r *reader) readU2() uint16 {
	buf := r.read(2)
	if buf == nil {
		return 0
	}
	return uint16(buf[0])<<8 | uint16(buf[1])
}

func (r *reader) readU4() uint32 {
	buf := r.read(4)
	if buf == nil {
		return 0
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
}

func (r *reader) readBytes(n int) []byte {
	return r.read(n)
}

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	r.offset += int64(read)
	if err != nil {
		r.err = err
		return nil
	}
	return buf
}

func (r *reader) ioError(what string) error {
	return &ClassError{
		Kind:    ErrIO,
		Offset:  r.offset,
		Message: "reading " + what,
		Err:     r.err,
	}
}

func (r *reader) formatError(msg string) error {
	return &ClassError{
		Kind:    ErrFormat,
		Offset:  r.offset,
		Message: msg,
	}
}

// ParseFile decodes a class file from disk.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClassError{Kind: ErrIO, Message: "opening class file", Err: err}
	}
	defer f.Close()
	return Parse(f)
}

// ParseBytes decodes a class file held in memory.
func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

// Parse decodes a class file. The decode is all-or-nothing: any truncation,
// malformed structure, or dangling pool reference returns a *ClassError and
// no partial result.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, r.ioError("magic")
	}
	if magic != Magic {
		return nil, r.formatError(fmt.Sprintf("invalid magic number 0x%X", magic))
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, r.ioError("version")
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, r.ioError("constant pool count")
	}
	if constantPoolCount == 0 {
		return nil, r.formatError("constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, twoSlots, err := readPoolEntry(r)
		if err != nil {
			return nil, err
		}
		cf.ConstantPool[i-1] = entry
		if twoSlots {
			i++
			if i >= constantPoolCount {
				return nil, r.formatError("long or double constant in final pool slot")
			}
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	if r.err != nil {
		return nil, r.ioError("class info")
	}

	cf.Interfaces = make([]uint16, interfacesCount)
	for i := uint16(0); i < interfacesCount; i++ {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, r.ioError("interfaces")
	}

	fieldsCount := r.readU2()
	if r.err != nil {
		return nil, r.ioError("fields count")
	}

	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := uint16(0); i < fieldsCount; i++ {
		flags, name, descriptor, attrs, err := readMember(r, cf.ConstantPool, "field")
		if err != nil {
			return nil, err
		}
		cf.Fields[i] = FieldInfo{AccessFlags: flags, Name: name, Descriptor: descriptor, Attributes: attrs}
	}

	methodsCount := r.readU2()
	if r.err != nil {
		return nil, r.ioError("methods count")
	}

	cf.Methods = make([]MethodInfo, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		flags, name, descriptor, attrs, err := readMember(r, cf.ConstantPool, "method")
		if err != nil {
			return nil, err
		}
		cf.Methods[i] = MethodInfo{AccessFlags: flags, Name: name, Descriptor: descriptor, Attributes: attrs}
	}

	attrs, err := readAttributes(r)
	if err != nil {
		return nil, err
	}
	cf.Attributes = attrs

	// Class-level references must resolve before the result is usable.
	if _, err := cf.ClassName(); err != nil {
		return nil, err
	}
	if _, err := cf.SuperClassName(); err != nil {
		return nil, err
	}
	if _, err := cf.InterfaceNames(); err != nil {
		return nil, err
	}

	return cf, nil
}

// readPoolEntry decodes one constant; twoSlots reports the double-width
// long and double tags.
func readPoolEntry(r *reader) (PoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return PoolEntry{}, false, r.ioError("constant pool tag")
	}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		raw := r.readBytes(int(length))
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("Utf8 constant")
		}
		return PoolEntry{Tag: tag, Utf8: decodeModifiedUtf8(raw)}, false, nil

	case ConstantInteger, ConstantFloat:
		bits := r.readU4()
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("numeric constant")
		}
		return PoolEntry{Tag: tag, Num: uint64(bits)}, false, nil

	case ConstantLong, ConstantDouble:
		high := r.readU4()
		low := r.readU4()
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("wide numeric constant")
		}
		return PoolEntry{Tag: tag, Num: uint64(high)<<32 | uint64(low)}, true, nil

	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		ref := r.readU2()
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("reference constant")
		}
		return PoolEntry{Tag: tag, Ref1: ref}, false, nil

	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		ref1 := r.readU2()
		ref2 := r.readU2()
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("reference constant")
		}
		return PoolEntry{Tag: tag, Ref1: ref1, Ref2: ref2}, false, nil

	case ConstantMethodHandle:
		kind := r.readU1()
		ref := r.readU2()
		if r.err != nil {
			return PoolEntry{}, false, r.ioError("method handle constant")
		}
		return PoolEntry{Tag: tag, Ref1: uint16(kind), Ref2: ref}, false, nil

	default:
		return PoolEntry{}, false, r.formatError(fmt.Sprintf("unknown constant pool tag %d", tag))
	}
}

func readMember(r *reader, cp ConstantPool, what string) (AccessFlags, string, string, []RawAttribute, error) {
	flags := AccessFlags(r.readU2())
	nameIndex := r.readU2()
	descriptorIndex := r.readU2()
	if r.err != nil {
		return 0, "", "", nil, r.ioError(what)
	}

	name, err := cp.GetUtf8(nameIndex)
	if err != nil {
		return 0, "", "", nil, err
	}
	descriptor, err := cp.GetUtf8(descriptorIndex)
	if err != nil {
		return 0, "", "", nil, err
	}

	attrs, err := readAttributes(r)
	if err != nil {
		return 0, "", "", nil, err
	}

	return flags, name, descriptor, attrs, nil
}

func readAttributes(r *reader) ([]RawAttribute, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.ioError("attributes count")
	}

	attrs := make([]RawAttribute, count)
	for i := uint16(0); i < count; i++ {
		nameIndex := r.readU2()
		length := r.readU4()
		info := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.ioError("attribute")
		}
		attrs[i] = RawAttribute{NameIndex: nameIndex, Info: info}
	}
	return attrs, nil
}

// decodeModifiedUtf8 converts the JVM's modified UTF-8 into a Go string.
// It differs from standard UTF-8 in its two-byte NUL and CESU-8 style
// surrogate pairs.
func decodeModifiedUtf8(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	i := 0
	for i < len(raw) {
		b := raw[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= len(raw) {
				i = len(raw)
				break
			}
			runes = append(runes, rune(b&0x1F)<<6|rune(raw[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= len(raw) {
				i = len(raw)
				break
			}
			r := rune(b&0x0F)<<12 | rune(raw[i+1]&0x3F)<<6 | rune(raw[i+2]&0x3F)
			// Supplementary characters arrive as CESU-8 surrogate pairs.
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(raw) && raw[i+3] == 0xED && raw[i+4]&0xF0 == 0xB0 {
				low := 0xDC00 | rune(raw[i+4]&0x0F)<<6 | rune(raw[i+5]&0x3F)
				runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
				i += 6
				continue
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
