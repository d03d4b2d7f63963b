package java

import (
	"errors"
	"testing"

	"github.com/emilycares/java-lsp/classfile"
)

// testClassFile builds a decoded class file by hand: com.example.Counter
// extending java.lang.Object and implementing java.lang.Runnable, with the
// compiler-generated members a real class carries.
func testClassFile() *classfile.ClassFile {
	pool := classfile.ConstantPool{
		{Tag: classfile.ConstantUtf8, Utf8: "com/example/Counter"}, // 1
		{Tag: classfile.ConstantClass, Ref1: 1},                    // 2
		{Tag: classfile.ConstantUtf8, Utf8: "java/lang/Object"},    // 3
		{Tag: classfile.ConstantClass, Ref1: 3},                    // 4
		{Tag: classfile.ConstantUtf8, Utf8: "java/lang/Runnable"},  // 5
		{Tag: classfile.ConstantClass, Ref1: 5},                    // 6
	}
	return &classfile.ClassFile{
		MajorVersion: 61,
		ConstantPool: pool,
		AccessFlags:  classfile.AccPublic | classfile.AccSuper,
		ThisClass:    2,
		SuperClass:   4,
		Interfaces:   []uint16{6},
		Fields: []classfile.FieldInfo{
			{AccessFlags: classfile.AccPrivate, Name: "count", Descriptor: "I"},
			{AccessFlags: classfile.AccSynthetic, Name: "this$0", Descriptor: "Lcom/example/Outer;"},
		},
		Methods: []classfile.MethodInfo{
			{AccessFlags: classfile.AccPublic, Name: "<init>", Descriptor: "()V"},
			{AccessFlags: classfile.AccStatic, Name: "<clinit>", Descriptor: "()V"},
			{AccessFlags: classfile.AccPublic, Name: "run", Descriptor: "()V"},
			{AccessFlags: classfile.AccPublic, Name: "add", Descriptor: "(ILjava/lang/String;)[I"},
			{AccessFlags: classfile.AccPublic | classfile.AccVarargs, Name: "log", Descriptor: "([Ljava/lang/String;)V"},
			{AccessFlags: classfile.AccPublic | classfile.AccBridge | classfile.AccSynthetic, Name: "compareTo", Descriptor: "(Ljava/lang/Object;)I"},
		},
	}
}

func TestClassFromClassFile(t *testing.T) {
	class, err := classFromClassFile(testClassFile())
	if err != nil {
		t.Fatal(err)
	}

	if class.Name != "Counter" || class.Package != "com.example" {
		t.Errorf("name = %q package = %q", class.Name, class.Package)
	}
	if class.Kind != ClassKindClass {
		t.Errorf("kind = %q", class.Kind)
	}
	if !class.Access.IsPublic() {
		t.Error("class should be public")
	}
	if class.SuperClass != "java.lang.Object" {
		t.Errorf("super = %q", class.SuperClass)
	}
	if len(class.Interfaces) != 1 || class.Interfaces[0] != "java.lang.Runnable" {
		t.Errorf("interfaces = %v", class.Interfaces)
	}

	// Synthetic fields stay out of the model.
	if len(class.Fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(class.Fields))
	}
	count := class.Fields[0]
	if count.Name != "count" || !count.Access.IsPrivate() || !count.Type.Equal(Int()) {
		t.Errorf("field count = %+v", count)
	}

	// Constructors, static initializers, and bridges stay out too.
	if len(class.Methods) != 3 {
		t.Fatalf("got %d methods, want 3: %+v", len(class.Methods), class.Methods)
	}
	run := class.Methods[0]
	if run.Name != "run" || !run.ReturnType.Equal(Void()) || len(run.Parameters) != 0 {
		t.Errorf("method run = %+v", run)
	}
	add := class.Methods[1]
	if add.Name != "add" || !add.ReturnType.Equal(ArrayOf(Int())) {
		t.Errorf("method add = %+v", add)
	}
	if len(add.Parameters) != 2 ||
		!add.Parameters[0].Type.Equal(Int()) ||
		!add.Parameters[1].Type.Equal(ClassOf("java.lang.String")) {
		t.Errorf("add parameters = %+v", add.Parameters)
	}

	// ACC_VARARGS shares the transient bit; it must not show up as a
	// modifier.
	log := class.Methods[2]
	if log.Access != AccessPublic {
		t.Errorf("log access = %#04x, want %#04x", uint16(log.Access), uint16(AccessPublic))
	}
	if !log.Parameters[0].Type.Equal(ArrayOf(ClassOf("java.lang.String"))) {
		t.Errorf("log parameters = %+v", log.Parameters)
	}
}

func TestClassFromClassFileKinds(t *testing.T) {
	tests := []struct {
		name  string
		flags classfile.AccessFlags
		want  ClassKind
	}{
		{"class", classfile.AccPublic, ClassKindClass},
		{"interface", classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract, ClassKindInterface},
		{"annotation", classfile.AccPublic | classfile.AccInterface | classfile.AccAnnotation | classfile.AccAbstract, ClassKindAnnotation},
		{"enum", classfile.AccPublic | classfile.AccEnum | classfile.AccFinal, ClassKindEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := testClassFile()
			cf.AccessFlags = tt.flags
			class, err := classFromClassFile(cf)
			if err != nil {
				t.Fatal(err)
			}
			if class.Kind != tt.want {
				t.Errorf("kind = %q, want %q", class.Kind, tt.want)
			}
		})
	}
}

func TestClassFromClassFileRootPackage(t *testing.T) {
	cf := testClassFile()
	cf.ConstantPool[0].Utf8 = "Standalone"
	class, err := classFromClassFile(cf)
	if err != nil {
		t.Fatal(err)
	}
	if class.Package != "" || class.Name != "Standalone" {
		t.Errorf("name = %q package = %q", class.Name, class.Package)
	}
}

func TestClassFromClassFileBadDescriptor(t *testing.T) {
	cf := testClassFile()
	cf.Fields[0].Descriptor = "Q"
	_, err := classFromClassFile(cf)
	var classErr *classfile.ClassError
	if !errors.As(err, &classErr) || classErr.Kind != classfile.ErrDescriptor {
		t.Fatalf("expected a descriptor error, got %v", err)
	}
}

func TestClassFromClassFileDanglingSuper(t *testing.T) {
	cf := testClassFile()
	cf.SuperClass = 99
	_, err := classFromClassFile(cf)
	var classErr *classfile.ClassError
	if !errors.As(err, &classErr) || classErr.Kind != classfile.ErrConstantPool {
		t.Fatalf("expected a constant pool error, got %v", err)
	}
}

func TestSourceAndClassFileAgree(t *testing.T) {
	source := `package com.example;

public class Counter implements java.lang.Runnable {
    private int count;

    public void run() {}

    public int[] add(int delta, java.lang.String label) {
        return null;
    }

    public void log(java.lang.String... parts) {}
}
`
	fromSource, diags, err := LoadSource([]byte(source), "Counter.java")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}

	fromBinary, err := classFromClassFile(testClassFile())
	if err != nil {
		t.Fatal(err)
	}
	// Parameter names survive only in source; the class file carries
	// nothing else the source does not.
	for i := range fromBinary.Methods {
		for j := range fromBinary.Methods[i].Parameters {
			fromBinary.Methods[i].Parameters[j].Name = fromSource.Methods[i].Parameters[j].Name
		}
	}
	fromBinary.SuperClass = ""

	if !fromSource.Equal(fromBinary) {
		t.Errorf("front-ends disagree:\nsource: %+v\nbinary: %+v", fromSource, fromBinary)
	}
}
