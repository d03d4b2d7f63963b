package java

import (
	"strings"
	"unicode"

	"github.com/emilycares/java-lsp/java/parser"
)

// ImportKind discriminates the closed set of import unit shapes.
type ImportKind int

const (
	// ImportClass is an ordinary single-class import.
	ImportClass ImportKind = iota
	// ImportStaticClass is a static import of a whole class.
	ImportStaticClass
	// ImportStaticClassMethod is a static import of one member.
	ImportStaticClassMethod
	// ImportStaticPrefix is a static wildcard import.
	ImportStaticPrefix
	// ImportPrefix is a wildcard import.
	ImportPrefix
	// ImportPackage is the file's own package, acting as an implicit
	// wildcard import.
	ImportPackage
)

// ImportUnit is one entry of a file's working import set. Member is set
// only for ImportStaticClassMethod.
type ImportUnit struct {
	Kind   ImportKind
	Path   string
	Member string
}

// IsImported reports whether classPath is visible under the given import
// set. Classes under java.lang are always visible.
func IsImported(imports []ImportUnit, classPath string) bool {
	if strings.HasPrefix(classPath, "java.lang.") {
		return true
	}
	for _, imp := range imports {
		switch imp.Kind {
		case ImportClass, ImportStaticClass, ImportStaticClassMethod:
			if imp.Path == classPath {
				return true
			}
		case ImportPrefix, ImportStaticPrefix, ImportPackage:
			if strings.HasPrefix(classPath, imp.Path) {
				return true
			}
		}
	}
	return false
}

// ImportsOf extracts the working import set of a parsed file: the file's
// own package first, then one unit per import declaration in source order.
func ImportsOf(file *parser.Node) []ImportUnit {
	if file == nil {
		return nil
	}

	var out []ImportUnit
	if pkg := file.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		if name := pkg.FirstChildOfKind(parser.KindQualifiedName); name != nil {
			out = append(out, ImportUnit{Kind: ImportPackage, Path: name.Name()})
		}
	}

	for _, decl := range file.ChildrenOfKind(parser.KindImportDecl) {
		if unit, ok := importUnitOf(decl); ok {
			out = append(out, unit)
		}
	}
	return out
}

func importUnitOf(decl *parser.Node) (ImportUnit, bool) {
	name := decl.FirstChildOfKind(parser.KindQualifiedName)
	if name == nil {
		return ImportUnit{}, false
	}
	path := name.Name()
	if path == "" {
		return ImportUnit{}, false
	}

	isStatic := false
	isWildcard := false
	for _, child := range decl.ChildrenOfKind(parser.KindIdentifier) {
		switch child.TokenLiteral() {
		case "static":
			isStatic = true
		case "*":
			isWildcard = true
		}
	}

	switch {
	case isStatic && isWildcard:
		return ImportUnit{Kind: ImportStaticPrefix, Path: path}, true
	case isWildcard:
		return ImportUnit{Kind: ImportPrefix, Path: path}, true
	case isStatic:
		// "import static a.b.C.max;" names a member of C, while
		// "import static a.b.C;" names the class itself. The class
		// segment is told apart by its leading capital.
		if class, member, ok := splitStaticMember(path); ok {
			return ImportUnit{Kind: ImportStaticClassMethod, Path: class, Member: member}, true
		}
		return ImportUnit{Kind: ImportStaticClass, Path: path}, true
	default:
		return ImportUnit{Kind: ImportClass, Path: path}, true
	}
}

func splitStaticMember(path string) (class, member string, ok bool) {
	segments := strings.Split(path, ".")
	if len(segments) < 2 {
		return "", "", false
	}
	classSegment := segments[len(segments)-2]
	r := []rune(classSegment)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return "", "", false
	}
	return strings.Join(segments[:len(segments)-1], "."), segments[len(segments)-1], true
}
