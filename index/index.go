package index

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/emilycares/java-lsp/java"
	"github.com/emilycares/java-lsp/java/parser"
)

var log = commonlog.GetLogger("java-lsp.index")

// Index holds the declaration models of everything scanned so far: source
// files keep their AST and diagnostics around for the editor, class files
// only contribute their declaration.
type Index struct {
	mu      sync.RWMutex
	files   map[string]*FileInfo
	binary  map[string]*java.Class
	byPath  map[string]*java.Class
	sources map[string]string
}

// FileInfo is the per-source-file state. Class is nil when the file failed
// to lex or declares no type; Diagnostics carries recovered syntax errors.
type FileInfo struct {
	Path        string
	Content     []byte
	AST         *parser.Node
	Class       *java.Class
	Imports     []java.ImportUnit
	Diagnostics []java.Diagnostic
	Err         error
}

func New() *Index {
	return &Index{
		files:  make(map[string]*FileInfo),
		binary: make(map[string]*java.Class),
	}
}

// UpdateFile (re)indexes one source file from the given content.
func (ix *Index) UpdateFile(path string, content []byte) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.updateFileLocked(path, content)
}

func (ix *Index) updateFileLocked(path string, content []byte) error {
	info := &FileInfo{
		Path:    path,
		Content: content,
	}

	ast, err := parser.ParseFile(content, filepath.Base(path))
	if err != nil {
		info.Err = err
	} else {
		info.AST = ast
		info.Imports = java.ImportsOf(ast)
		info.Class = java.ClassFromAST(ast)
		info.Diagnostics = java.DiagnosticsOf(ast)
	}

	ix.files[path] = info
	ix.rebuildLocked()
	return info.Err
}

// ScanFile reads and indexes one source file from disk.
func (ix *Index) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ix.UpdateFile(path, content)
}

// ScanDir walks dir and indexes every .java file under it. Files that fail
// to read or lex are recorded but do not abort the walk.
func (ix *Index) ScanDir(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".java" {
			if err := ix.ScanFile(path); err != nil {
				log.Infof("skipping %s: %s", path, err.Error())
			}
		}
		return nil
	})
}

// ScanJar indexes every top-level class in a jar or zip archive. Nested
// and module descriptor entries are skipped; a class that fails to decode
// is skipped too.
func (ix *Index) ScanJar(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || filepath.Ext(f.Name) != ".class" {
			continue
		}
		if strings.Contains(f.Name, "$") || filepath.Base(f.Name) == "module-info.class" {
			continue
		}
		ix.scanJarEntry(f)
	}
	return nil
}

func (ix *Index) scanJarEntry(f *zip.File) {
	rc, err := f.Open()
	if err != nil {
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return
	}

	class, err := java.LoadClass(data)
	if err != nil {
		log.Infof("skipping %s: %s", f.Name, err.Error())
		return
	}
	ix.AddClass(class)
}

// AddClass registers a class decoded outside the index, keyed by its fully
// qualified name.
func (ix *Index) AddClass(class *java.Class) {
	if class == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.binary[class.FullName()] = class
	ix.rebuildLocked()
}

// RemoveFile drops a source file and the class it contributed.
func (ix *Index) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.files, path)
	ix.rebuildLocked()
}

func (ix *Index) rebuildLocked() {
	byPath := make(map[string]*java.Class, len(ix.binary)+len(ix.files))
	sources := make(map[string]string, len(ix.files))
	for path, class := range ix.binary {
		byPath[path] = class
	}
	// Source wins over a binary class of the same name.
	for file, info := range ix.files {
		if info.Class != nil {
			byPath[info.Class.FullName()] = info.Class
			sources[info.Class.FullName()] = file
		}
	}
	ix.byPath = byPath
	ix.sources = sources
}

// GetFile returns the indexed state of a source file, nil if unknown.
func (ix *Index) GetFile(path string) *FileInfo {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.files[path]
}

// SourceOf returns the source file path a class was indexed from, empty
// for classes that came from a jar.
func (ix *Index) SourceOf(classPath string) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.sources[classPath]
}

// Get looks a class up by fully qualified name.
func (ix *Index) Get(classPath string) *java.Class {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.byPath[classPath]
}

// ClassPaths returns all indexed fully qualified names, sorted.
func (ix *Index) ClassPaths() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	paths := make([]string, 0, len(ix.byPath))
	for path := range ix.byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Resolve finds the class a simple name refers to under the given import
// set. Explicit single-class imports win over wildcard visibility; among
// equally visible candidates the lexicographically first name wins, so
// resolution is deterministic.
func (ix *Index) Resolve(name string, imports []java.ImportUnit) *java.Class {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if class, ok := ix.byPath[name]; ok {
		return class
	}

	for _, imp := range imports {
		switch imp.Kind {
		case java.ImportClass, java.ImportStaticClass, java.ImportStaticClassMethod:
			if imp.Path == name || strings.HasSuffix(imp.Path, "."+name) {
				if class, ok := ix.byPath[imp.Path]; ok {
					return class
				}
			}
		}
	}

	var candidate *java.Class
	for path, class := range ix.byPath {
		if class.Name != name {
			continue
		}
		if !java.IsImported(imports, path) {
			continue
		}
		if candidate == nil || path < candidate.FullName() {
			candidate = class
		}
	}
	return candidate
}
