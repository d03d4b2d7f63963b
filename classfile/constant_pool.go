package classfile

import "fmt"

// PoolEntry is one constant pool slot. Every tag fits the same shape: a
// decoded string for Utf8 entries, up to two pool references, and the raw
// bits of numeric constants. Long and double entries occupy two slots; the
// second slot has tag zero.
type PoolEntry struct {
	Tag  ConstantTag
	Utf8 string
	Ref1 uint16
	Ref2 uint16
	Num  uint64
}

// ConstantPool holds the pool as decoded, addressed by the one-based
// indices the rest of the class file uses.
type ConstantPool []PoolEntry

func (cp ConstantPool) entry(index uint16) (*PoolEntry, error) {
	if index == 0 || int(index) > len(cp) {
		return nil, &ClassError{
			Kind:    ErrConstantPool,
			Message: fmt.Sprintf("pool index %d out of range 1..%d", index, len(cp)),
		}
	}
	return &cp[index-1], nil
}

// Utf8 resolves index to a Utf8 entry or fails.
func (cp ConstantPool) GetUtf8(index uint16) (string, error) {
	entry, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if entry.Tag != ConstantUtf8 {
		return "", &ClassError{
			Kind:    ErrConstantPool,
			Message: fmt.Sprintf("pool index %d has tag %d, expected Utf8", index, entry.Tag),
		}
	}
	return entry.Utf8, nil
}

// GetClassName resolves index to a Class entry and follows its name.
func (cp ConstantPool) GetClassName(index uint16) (string, error) {
	entry, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if entry.Tag != ConstantClass {
		return "", &ClassError{
			Kind:    ErrConstantPool,
			Message: fmt.Sprintf("pool index %d has tag %d, expected Class", index, entry.Tag),
		}
	}
	return cp.GetUtf8(entry.Ref1)
}

// GetNameAndType resolves index to a NameAndType entry.
func (cp ConstantPool) GetNameAndType(index uint16) (name, descriptor string, err error) {
	entry, err := cp.entry(index)
	if err != nil {
		return "", "", err
	}
	if entry.Tag != ConstantNameAndType {
		return "", "", &ClassError{
			Kind:    ErrConstantPool,
			Message: fmt.Sprintf("pool index %d has tag %d, expected NameAndType", index, entry.Tag),
		}
	}
	if name, err = cp.GetUtf8(entry.Ref1); err != nil {
		return "", "", err
	}
	if descriptor, err = cp.GetUtf8(entry.Ref2); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}
