package java

import (
	"strings"

	"github.com/emilycares/java-lsp/classfile"
)

// Access is the shared modifier vocabulary of both front-ends. The bit
// layout follows the class-file access flags; source modifiers normalize
// into the same bits.
type Access uint16

const (
	AccessPublic       Access = 0x0001
	AccessPrivate      Access = 0x0002
	AccessProtected    Access = 0x0004
	AccessStatic       Access = 0x0008
	AccessFinal        Access = 0x0010
	AccessSuper        Access = 0x0020
	AccessSynchronized Access = 0x0020
	AccessVolatile     Access = 0x0040
	AccessTransient    Access = 0x0080
	AccessInterface    Access = 0x0200
	AccessAbstract     Access = 0x0400
	AccessSynthetic    Access = 0x1000
	AccessAnnotation   Access = 0x2000
	AccessEnum         Access = 0x4000
)

func (a Access) Has(flag Access) bool { return a&flag != 0 }

func (a Access) IsPublic() bool    { return a.Has(AccessPublic) }
func (a Access) IsPrivate() bool   { return a.Has(AccessPrivate) }
func (a Access) IsProtected() bool { return a.Has(AccessProtected) }
func (a Access) IsStatic() bool    { return a.Has(AccessStatic) }
func (a Access) IsFinal() bool     { return a.Has(AccessFinal) }
func (a Access) IsAbstract() bool  { return a.Has(AccessAbstract) }
func (a Access) IsInterface() bool { return a.Has(AccessInterface) }
func (a Access) IsEnum() bool      { return a.Has(AccessEnum) }
func (a Access) IsSynthetic() bool { return a.Has(AccessSynthetic) }

func (a Access) String() string {
	var parts []string
	if a.IsPublic() {
		parts = append(parts, "public")
	}
	if a.IsPrivate() {
		parts = append(parts, "private")
	}
	if a.IsProtected() {
		parts = append(parts, "protected")
	}
	if a.IsStatic() {
		parts = append(parts, "static")
	}
	if a.IsAbstract() {
		parts = append(parts, "abstract")
	}
	if a.IsFinal() {
		parts = append(parts, "final")
	}
	if a.Has(AccessVolatile) {
		parts = append(parts, "volatile")
	}
	if a.Has(AccessTransient) {
		parts = append(parts, "transient")
	}
	return strings.Join(parts, " ")
}

// accessFromFlags narrows class-file flags to the shared vocabulary.
func accessFromFlags(flags classfile.AccessFlags) Access {
	const kept = AccessPublic | AccessPrivate | AccessProtected |
		AccessStatic | AccessFinal | AccessSuper | AccessVolatile |
		AccessTransient | AccessInterface | AccessAbstract |
		AccessSynthetic | AccessAnnotation | AccessEnum
	return Access(flags) & kept
}

// accessFromModifier maps a source modifier keyword to its flag bit; zero
// for modifiers outside the shared vocabulary, like strictfp.
func accessFromModifier(word string) Access {
	switch word {
	case "public":
		return AccessPublic
	case "private":
		return AccessPrivate
	case "protected":
		return AccessProtected
	case "static":
		return AccessStatic
	case "final":
		return AccessFinal
	case "abstract":
		return AccessAbstract
	case "volatile":
		return AccessVolatile
	case "transient":
		return AccessTransient
	case "synchronized":
		return AccessSynchronized
	}
	return 0
}
