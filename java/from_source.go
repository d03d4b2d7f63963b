package java

import (
	"strings"

	"github.com/emilycares/java-lsp/java/parser"
)

// LoadSource parses Java source text and extracts the declaration model of
// its first top-level type. Recovered syntax errors come back as
// diagnostics next to the result; only a lexical failure or a file with no
// type declaration yields a nil Class.
func LoadSource(source []byte, file string) (*Class, []Diagnostic, error) {
	ast, err := parser.ParseFile(source, file)
	if err != nil {
		return nil, nil, err
	}

	return ClassFromAST(ast), DiagnosticsOf(ast), nil
}

// DiagnosticsOf collects the recovered syntax errors of a parsed file.
func DiagnosticsOf(ast *parser.Node) []Diagnostic {
	var diagnostics []Diagnostic
	for _, errNode := range ast.CollectErrors() {
		diagnostics = append(diagnostics, Diagnostic{
			Span:    errNode.Span,
			Message: errNode.Error.Message,
		})
	}
	return diagnostics
}

// ClassFromAST builds the declaration model from a parsed compilation
// unit. Returns nil when the file declares no type.
func ClassFromAST(file *parser.Node) *Class {
	pkg := ""
	if pkgDecl := file.FirstChildOfKind(parser.KindPackageDecl); pkgDecl != nil {
		pkg = pkgDecl.FirstChildOfKind(parser.KindQualifiedName).Name()
	}

	decl := firstTypeDecl(file)
	if decl == nil {
		return nil
	}
	return classFromTypeDecl(decl, pkg)
}

func firstTypeDecl(file *parser.Node) *parser.Node {
	for _, child := range file.Children {
		switch child.Kind {
		case parser.KindClassDecl, parser.KindInterfaceDecl,
			parser.KindEnumDecl, parser.KindRecordDecl, parser.KindAnnotationDecl:
			return child
		}
	}
	return nil
}

func classFromTypeDecl(decl *parser.Node, pkg string) *Class {
	kind := ClassKindClass
	switch decl.Kind {
	case parser.KindInterfaceDecl:
		kind = ClassKindInterface
	case parser.KindEnumDecl:
		kind = ClassKindEnum
	case parser.KindRecordDecl:
		kind = ClassKindRecord
	case parser.KindAnnotationDecl:
		kind = ClassKindAnnotation
	}

	class := &Class{
		Name:    decl.FirstChildOfKind(parser.KindIdentifier).Name(),
		Package: pkg,
		Kind:    kind,
		Access:  accessOf(decl.FirstChildOfKind(parser.KindModifiers)),
	}
	switch kind {
	case ClassKindInterface, ClassKindAnnotation:
		class.Access |= AccessInterface | AccessAbstract
	case ClassKindEnum:
		class.Access |= AccessEnum
	}

	if ext := decl.FirstChildOfKind(parser.KindExtendsClause); ext != nil {
		names := typeNames(ext)
		if kind == ClassKindInterface {
			// Interfaces extend interfaces; they land next to
			// implements clauses in the model.
			class.Interfaces = append(class.Interfaces, names...)
		} else if len(names) > 0 {
			class.SuperClass = names[0]
		}
	}
	if impl := decl.FirstChildOfKind(parser.KindImplementsClause); impl != nil {
		class.Interfaces = append(class.Interfaces, typeNames(impl)...)
	}

	memberDefault := Access(0)
	if kind == ClassKindInterface || kind == ClassKindAnnotation {
		memberDefault = AccessPublic
	}

	// Record components double as fields.
	if kind == ClassKindRecord {
		if params := decl.FirstChildOfKind(parser.KindParameters); params != nil {
			for _, param := range params.ChildrenOfKind(parser.KindParameter) {
				name, typ := parameterOf(param)
				class.Fields = append(class.Fields, Field{
					Name:   name,
					Access: AccessPrivate | AccessFinal,
					Type:   typ,
				})
			}
		}
	}

	body := decl.FirstChildOfKind(parser.KindBody)
	members := decl.Children
	if body != nil {
		members = body.Children
	}

	for _, member := range members {
		switch member.Kind {
		case parser.KindFieldDecl:
			typeNode := member.FirstChildOfKind(parser.KindType)
			if typeNode == nil {
				typeNode = member.FirstChildOfKind(parser.KindArrayType)
			}
			typ := typeOf(typeNode)
			access := accessOf(member.FirstChildOfKind(parser.KindModifiers))
			if !access.Has(AccessPublic|AccessPrivate|AccessProtected) && memberDefault != 0 {
				access |= memberDefault
			}
			for _, id := range member.ChildrenOfKind(parser.KindIdentifier) {
				class.Fields = append(class.Fields, Field{
					Name:   id.TokenLiteral(),
					Access: access,
					Type:   typ,
				})
			}
		case parser.KindMethodDecl:
			class.Methods = append(class.Methods, methodFromNode(member, memberDefault))
		}
	}

	return class
}

func methodFromNode(member *parser.Node, memberDefault Access) Method {
	access := accessOf(member.FirstChildOfKind(parser.KindModifiers))
	if !access.Has(AccessPublic|AccessPrivate|AccessProtected) && memberDefault != 0 {
		access |= memberDefault
	}

	returnType := Void()
	if typeNode := member.FirstChildOfKind(parser.KindType); typeNode != nil {
		returnType = typeOf(typeNode)
	} else if typeNode := member.FirstChildOfKind(parser.KindArrayType); typeNode != nil {
		returnType = typeOf(typeNode)
	}

	method := Method{
		Name:       member.FirstChildOfKind(parser.KindIdentifier).Name(),
		Access:     access,
		ReturnType: returnType,
	}

	if params := member.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, param := range params.ChildrenOfKind(parser.KindParameter) {
			name, typ := parameterOf(param)
			method.Parameters = append(method.Parameters, Parameter{Name: name, Type: typ})
		}
	}

	return method
}

// parameterOf extracts a parameter's name and type. A varargs ellipsis
// wraps the declared type in one more array level.
func parameterOf(param *parser.Node) (string, JType) {
	typeNode := param.FirstChildOfKind(parser.KindType)
	if typeNode == nil {
		typeNode = param.FirstChildOfKind(parser.KindArrayType)
	}
	typ := typeOf(typeNode)

	name := ""
	for _, id := range param.ChildrenOfKind(parser.KindIdentifier) {
		if id.TokenLiteral() == "..." {
			typ = ArrayOf(typ)
			continue
		}
		name = id.TokenLiteral()
	}
	return name, typ
}

// typeOf converts a type node into a JType. The written name is kept as-is
// for class types; qualification happens at resolution time.
func typeOf(node *parser.Node) JType {
	if node == nil {
		return Void()
	}
	switch node.Kind {
	case parser.KindArrayType:
		var elemNode *parser.Node
		for _, child := range node.Children {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				elemNode = child
			}
		}
		return ArrayOf(typeOf(elemNode))
	case parser.KindType:
		if id := node.FirstChildOfKind(parser.KindIdentifier); id != nil {
			if t, ok := PrimitiveType(id.TokenLiteral()); ok {
				return t
			}
			return ClassOf(id.TokenLiteral())
		}
		// A generic owner splits the written type into several
		// qualified-name segments: Outer<T>.Inner parses as
		// "Outer" then "Inner".
		var segments []string
		for _, qn := range node.ChildrenOfKind(parser.KindQualifiedName) {
			segments = append(segments, qn.Name())
		}
		if len(segments) > 0 {
			return ClassOf(strings.Join(segments, "."))
		}
	}
	return Void()
}

func typeNames(clause *parser.Node) []string {
	var names []string
	for _, typeNode := range clause.ChildrenOfKind(parser.KindType) {
		t := typeOf(typeNode)
		if t.Kind == KindClass {
			names = append(names, t.Name)
		}
	}
	return names
}

func accessOf(modifiers *parser.Node) Access {
	if modifiers == nil {
		return 0
	}
	var access Access
	for _, child := range modifiers.ChildrenOfKind(parser.KindIdentifier) {
		access |= accessFromModifier(child.TokenLiteral())
	}
	return access
}
