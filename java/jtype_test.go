package java

import (
	"errors"
	"testing"

	"github.com/emilycares/java-lsp/classfile"
)

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want JType
	}{
		{"V", Void()},
		{"B", Byte()},
		{"C", Char()},
		{"D", Double()},
		{"F", Float()},
		{"I", Int()},
		{"J", Long()},
		{"S", Short()},
		{"Z", Boolean()},
		{"Ljava/lang/String;", ClassOf("java.lang.String")},
		{"[I", ArrayOf(Int())},
		{"[[D", ArrayOf(ArrayOf(Double()))},
		{"[Ljava/util/List;", ArrayOf(ClassOf("java.util.List"))},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := ParseFieldDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldDescriptor(%q): %v", tt.desc, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseFieldDescriptor(%q) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "X", "L", "Ljava/lang/String", "II", "[", "L;"} {
		t.Run(desc, func(t *testing.T) {
			_, err := ParseFieldDescriptor(desc)
			var ce *classfile.ClassError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ClassError, got %v", err)
			}
			if ce.Kind != classfile.ErrDescriptor {
				t.Errorf("kind = %v, want %v", ce.Kind, classfile.ErrDescriptor)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	params, ret, err := ParseMethodDescriptor("(I[Ljava/lang/String;)Ljava/util/List;")
	if err != nil {
		t.Fatal(err)
	}
	if !ret.Equal(ClassOf("java.util.List")) {
		t.Errorf("return = %v", ret)
	}
	if len(params) != 2 {
		t.Fatalf("got %d params, want 2", len(params))
	}
	if !params[0].Equal(Int()) {
		t.Errorf("param 0 = %v", params[0])
	}
	if !params[1].Equal(ArrayOf(ClassOf("java.lang.String"))) {
		t.Errorf("param 1 = %v", params[1])
	}

	params, ret, err = ParseMethodDescriptor("()V")
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 0 || !ret.Equal(Void()) {
		t.Errorf("()V = %v %v", params, ret)
	}
}

func TestParseMethodDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "I", "(I", "(IV", "()", "()VX"} {
		t.Run(desc, func(t *testing.T) {
			if _, _, err := ParseMethodDescriptor(desc); err == nil {
				t.Errorf("ParseMethodDescriptor(%q) succeeded", desc)
			}
		})
	}
}

func TestJTypeString(t *testing.T) {
	tests := []struct {
		t    JType
		want string
	}{
		{Int(), "int"},
		{Void(), "void"},
		{ClassOf("java.lang.String"), "java.lang.String"},
		{ArrayOf(Int()), "int[]"},
		{ArrayOf(ArrayOf(ClassOf("A"))), "A[][]"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestJTypeEqual(t *testing.T) {
	if !ArrayOf(Int()).Equal(ArrayOf(Int())) {
		t.Error("equal arrays reported unequal")
	}
	if ArrayOf(Int()).Equal(ArrayOf(Long())) {
		t.Error("unequal arrays reported equal")
	}
	if ClassOf("A").Equal(ClassOf("B")) {
		t.Error("unequal classes reported equal")
	}
	if Int().Equal(ClassOf("int")) {
		t.Error("primitive equals class of same spelling")
	}
}

// The source spelling and the descriptor spelling of a type must decode to
// the same value.
func TestSourceAndDescriptorAgree(t *testing.T) {
	source := `class Sample {
    void run(int[] flags, java.lang.String name, double rate) {}
}
`
	class, diags, err := LoadSource([]byte(source), "Sample.java")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(class.Methods) != 1 {
		t.Fatalf("got %d methods", len(class.Methods))
	}

	params, _, err := ParseMethodDescriptor("([ILjava/lang/String;D)V")
	if err != nil {
		t.Fatal(err)
	}

	got := class.Methods[0].Parameters
	if len(got) != len(params) {
		t.Fatalf("got %d params, want %d", len(got), len(params))
	}
	for i := range params {
		if !got[i].Type.Equal(params[i]) {
			t.Errorf("param %d: source %v != descriptor %v", i, got[i].Type, params[i])
		}
	}
}
