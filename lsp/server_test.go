package lsp

import (
	"strings"
	"testing"

	"github.com/emilycares/java-lsp/index"
	"github.com/emilycares/java-lsp/java/parser"
)

func TestWordAt(t *testing.T) {
	content := []byte("import com.shop.Widget;\nclass A { Widget w; }\n")

	tests := []struct {
		name string
		line int
		col  int
		want string
	}{
		{"start of word", 1, 10, "Widget"},
		{"middle of word", 1, 13, "Widget"},
		{"end of word", 1, 16, "Widget"},
		{"whitespace", 1, 9, ""},
		{"line out of range", 5, 0, ""},
		{"col past end", 0, 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordAt(content, tt.line, tt.col); got != tt.want {
				t.Errorf("wordAt(%d, %d) = %q, want %q", tt.line, tt.col, got, tt.want)
			}
		})
	}
}

func TestUtf16Columns(t *testing.T) {
	// "é" is two bytes but one UTF-16 unit; "𝄞" is four bytes and two.
	text := "é𝄞abc"

	tests := []struct {
		name    string
		byteCol int
		want    int
	}{
		{"start", 0, 0},
		{"after two-byte rune", 2, 1},
		{"after four-byte rune", 6, 3},
		{"end", len(text), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utf16Column(text, tt.byteCol); got != tt.want {
				t.Errorf("utf16Column(%d) = %d, want %d", tt.byteCol, got, tt.want)
			}
			if got := byteColumn(text, tt.want); got != tt.byteCol {
				t.Errorf("byteColumn(%d) = %d, want %d", tt.want, got, tt.byteCol)
			}
		})
	}

	if got := byteColumn(text, 99); got != len(text) {
		t.Errorf("byteColumn past end = %d, want %d", got, len(text))
	}
}

func TestProtocolColumnsAreUtf16(t *testing.T) {
	line := `String s = "café"; Widget w;`
	byteCol := strings.Index(line, "Widget")

	// The two-byte "é" before the identifier shifts the protocol column
	// one unit left of the byte column.
	pos := toProtocolPosition([]byte(line), parser.Position{Line: 0, Col: byteCol})
	if int(pos.Character) != byteCol-1 {
		t.Errorf("character = %d, want %d", pos.Character, byteCol-1)
	}
	if got := byteColumn(line, byteCol-1); got != byteCol {
		t.Errorf("byteColumn round-trip = %d, want %d", got, byteCol)
	}
}

func TestUriToPath(t *testing.T) {
	path, err := uriToPath("file:///home/user/src/Widget.java")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/home/user/src/Widget.java" {
		t.Errorf("path = %q", path)
	}

	path, err = uriToPath("/plain/path/Widget.java")
	if err != nil || path != "/plain/path/Widget.java" {
		t.Errorf("plain path came back as %q, %v", path, err)
	}
}

func TestDeclarationRange(t *testing.T) {
	ix := index.New()
	source := "package com.shop;\n\npublic class Widget {\n}\n"
	if err := ix.UpdateFile("/src/Widget.java", []byte(source)); err != nil {
		t.Fatal(err)
	}

	r := declarationRange(ix.GetFile("/src/Widget.java"))
	if r.Start.Line != 2 {
		t.Errorf("declaration on line %d, want 2", r.Start.Line)
	}
	if r.Start.Character != 13 {
		t.Errorf("declaration at col %d, want 13", r.Start.Character)
	}
}

func TestDeclarationRangeNoDeclaration(t *testing.T) {
	ix := index.New()
	if err := ix.UpdateFile("/src/package-info.java", []byte("package com.shop;\n")); err != nil {
		t.Fatal(err)
	}
	r := declarationRange(ix.GetFile("/src/package-info.java"))
	if r.Start.Line != 0 || r.Start.Character != 0 {
		t.Errorf("want zero range, got %+v", r)
	}
}
