package parser

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func mustParse(t *testing.T, source string) *Node {
	t.Helper()
	node, err := ParseFile([]byte(source), "test.java")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if node == nil {
		t.Fatal("ParseFile returned nil node")
	}
	return node
}

func TestParseCompilationUnit(t *testing.T) {
	source := `package com.example;

import java.util.List;
import static java.util.Collections.emptyList;
import java.io.*;

public class Greeter {
    private final String name;

    public Greeter(String name) {
        this.name = name;
    }

    public String greet(int times, String... extras) throws IllegalStateException {
        return name;
    }
}
`
	root := mustParse(t, source)

	if root.Kind != KindCompilationUnit {
		t.Fatalf("root kind = %v", root.Kind)
	}
	if errs := root.CollectErrors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	pkg := root.FirstChildOfKind(KindPackageDecl)
	if pkg == nil {
		t.Fatal("no package declaration")
	}
	if got := pkg.FirstChildOfKind(KindQualifiedName).Name(); got != "com.example" {
		t.Errorf("package = %q, want %q", got, "com.example")
	}

	imports := root.ChildrenOfKind(KindImportDecl)
	if len(imports) != 3 {
		t.Fatalf("got %d imports, want 3", len(imports))
	}

	class := root.FirstChildOfKind(KindClassDecl)
	if class == nil {
		t.Fatal("no class declaration")
	}
	if got := class.FirstChildOfKind(KindIdentifier).TokenLiteral(); got != "Greeter" {
		t.Errorf("class name = %q, want %q", got, "Greeter")
	}

	body := class.FirstChildOfKind(KindBody)
	if body == nil {
		t.Fatal("no class body")
	}
	if fields := body.ChildrenOfKind(KindFieldDecl); len(fields) != 1 {
		t.Errorf("got %d fields, want 1", len(fields))
	}
	if ctors := body.ChildrenOfKind(KindConstructorDecl); len(ctors) != 1 {
		t.Errorf("got %d constructors, want 1", len(ctors))
	}
	methods := body.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(methods))
	}

	method := methods[0]
	if got := method.FirstChildOfKind(KindIdentifier).TokenLiteral(); got != "greet" {
		t.Errorf("method name = %q, want %q", got, "greet")
	}
	params := method.FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)
	if len(params) != 2 {
		t.Errorf("got %d parameters, want 2", len(params))
	}
	if method.FirstChildOfKind(KindThrowsList) == nil {
		t.Error("no throws list")
	}
}

func TestParseTypeDeclKinds(t *testing.T) {
	tests := []struct {
		source string
		kind   NodeKind
	}{
		{"class A {}", KindClassDecl},
		{"interface A {}", KindInterfaceDecl},
		{"enum A { ONE, TWO }", KindEnumDecl},
		{"record A(int x, int y) {}", KindRecordDecl},
		{"@interface A {}", KindAnnotationDecl},
		{"public sealed class A permits B {}", KindClassDecl},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			root := mustParse(t, tt.source)
			if errs := root.CollectErrors(); len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if root.FirstChildOfKind(tt.kind) == nil {
				t.Errorf("no %v node in:\n%s", tt.kind, root)
			}
		})
	}
}

func TestParseRecoveryKeepsSiblings(t *testing.T) {
	source := `class Holder {
    void first() {}
    void second(int {
    }
    void third() {}
}
`
	root := mustParse(t, source)

	errs := root.CollectErrors()
	if len(errs) == 0 {
		t.Fatal("expected at least one error node")
	}

	class := root.FirstChildOfKind(KindClassDecl)
	if class == nil {
		t.Fatal("class declaration lost")
	}
	body := class.FirstChildOfKind(KindBody)
	if body == nil {
		t.Fatal("class body lost")
	}

	methods := body.ChildrenOfKind(KindMethodDecl)
	var names []string
	for _, m := range methods {
		names = append(names, m.FirstChildOfKind(KindIdentifier).TokenLiteral())
	}

	has := func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	if !has("first") || !has("third") {
		t.Errorf("healthy siblings lost, methods = %v", names)
	}
}

func TestParseErrorSpansStayInBrokenMember(t *testing.T) {
	source := `class Holder {
    void first() {}
    int bad = ;
    void third() {}
}
`
	root := mustParse(t, source)
	errs := root.CollectErrors()
	if len(errs) == 0 {
		t.Fatal("expected error nodes")
	}
	for _, errNode := range errs {
		if errNode.Span.Start.Line != 2 {
			t.Errorf("error on line %d, want line 2", errNode.Span.Start.Line)
		}
	}

	body := root.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBody)
	methods := body.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 2 {
		t.Errorf("got %d methods, want 2", len(methods))
	}
}

func TestParseRangeContainment(t *testing.T) {
	source := `package p;

import java.util.Map;

class Outer {
    int count;

    Map<String, Integer> lookup(String key) {
        return null;
    }

    static class Inner {}
}
`
	assertSpansNested(t, mustParse(t, source))
}

// assertSpansNested walks the tree checking that no node has an inverted
// span and that every child lies within its parent.
func assertSpansNested(t *testing.T, root *Node) {
	t.Helper()
	var walk func(n *Node)
	walk = func(n *Node) {
		if lessPos(n.Span.End, n.Span.Start) {
			t.Errorf("%v has inverted span %v-%v", n.Kind, n.Span.Start, n.Span.End)
		}
		for _, child := range n.Children {
			if !n.Span.Contains(child.Span) {
				t.Errorf("%v span %v-%v outside parent %v span %v-%v",
					child.Kind, child.Span.Start, child.Span.End,
					n.Kind, n.Span.Start, n.Span.End)
			}
			walk(child)
		}
	}
	walk(root)
}

func TestParseModifiedDeclSpansCoverModifiers(t *testing.T) {
	source := `package p;

public final class Sample {
    private static int count;

    protected java.util.List<String> names() { return null; }
}
`
	root := mustParse(t, source)
	assertSpansNested(t, root)

	method := root.FirstChildOfKind(KindClassDecl).
		FirstChildOfKind(KindBody).
		FirstChildOfKind(KindMethodDecl)
	if method.Span.Start.Col != 4 {
		t.Errorf("method starts at col %d, want 4 (the 'protected' keyword)", method.Span.Start.Col)
	}
}

func TestParseRangeContainmentWithErrors(t *testing.T) {
	source := `class Holder {
    void first() {}
    void second(int {
    }
    void third() {}
}
`
	root := mustParse(t, source)
	if errs := root.CollectErrors(); len(errs) == 0 {
		t.Fatal("expected error nodes")
	}
	assertSpansNested(t, root)
}

func TestParseDeterminism(t *testing.T) {
	source := `package p;

import a.b.C;

public class Sample {
    private int x;
    void run(String[] args) {}
    enum Mode { ON, OFF }
}
`
	first := mustParse(t, source).StringWithPositions()
	second := mustParse(t, source).StringWithPositions()

	if first != second {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "first",
			ToFile:   "second",
			Context:  3,
		})
		t.Errorf("parses differ:\n%s", diff)
	}
}

func TestParseGenericsAreSkipped(t *testing.T) {
	source := `class Box {
    java.util.Map<String, java.util.List<Integer>> entries;
    <T extends Comparable<T>> T pick(T left, T right) { return left; }
}
`
	root := mustParse(t, source)
	if errs := root.CollectErrors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	body := root.FirstChildOfKind(KindClassDecl).FirstChildOfKind(KindBody)
	if fields := body.ChildrenOfKind(KindFieldDecl); len(fields) != 1 {
		t.Errorf("got %d fields, want 1", len(fields))
	}
	if methods := body.ChildrenOfKind(KindMethodDecl); len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}
}

func TestParseEnumWithMembers(t *testing.T) {
	source := `enum Planet {
    MERCURY(3.3e23), VENUS(4.8e24);

    private final double mass;

    Planet(double mass) {
        this.mass = mass;
    }

    double mass() { return mass; }
}
`
	root := mustParse(t, source)
	if errs := root.CollectErrors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	enum := root.FirstChildOfKind(KindEnumDecl)
	if enum == nil {
		t.Fatal("no enum declaration")
	}
	if constants := enum.ChildrenOfKind(KindEnumConstant); len(constants) != 2 {
		t.Errorf("got %d constants, want 2", len(constants))
	}
	if fields := enum.ChildrenOfKind(KindFieldDecl); len(fields) != 1 {
		t.Errorf("got %d fields, want 1", len(fields))
	}
	if methods := enum.ChildrenOfKind(KindMethodDecl); len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}
	if ctors := enum.ChildrenOfKind(KindConstructorDecl); len(ctors) != 1 {
		t.Errorf("got %d constructors, want 1", len(ctors))
	}
}

func TestParseAnnotationsAndInitializers(t *testing.T) {
	source := `@Deprecated
@SuppressWarnings("all")
public class Configured {
    static { setup(); }
    { register(); }

    @Override
    public String toString() { return ""; }
}
`
	root := mustParse(t, source)
	if errs := root.CollectErrors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	class := root.FirstChildOfKind(KindClassDecl)
	modifiers := class.FirstChildOfKind(KindModifiers)
	if annotations := modifiers.ChildrenOfKind(KindAnnotation); len(annotations) != 2 {
		t.Errorf("got %d annotations, want 2", len(annotations))
	}

	body := class.FirstChildOfKind(KindBody)
	if inits := body.ChildrenOfKind(KindInitializerBlock); len(inits) != 2 {
		t.Errorf("got %d initializer blocks, want 2", len(inits))
	}
	if methods := body.ChildrenOfKind(KindMethodDecl); len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}
}

func TestParseRootSpanCoversInput(t *testing.T) {
	source := "package p;\nclass A {}\n"
	root := mustParse(t, source)
	if root.Span.Start.Offset != 0 {
		t.Errorf("root starts at offset %d, want 0", root.Span.Start.Offset)
	}
	if root.Span.End.Offset != len(source)-1 {
		t.Errorf("root ends at offset %d, want %d", root.Span.End.Offset, len(source)-1)
	}
}
