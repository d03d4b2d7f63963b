package lsp

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/emilycares/java-lsp/index"
	"github.com/emilycares/java-lsp/java"
	"github.com/emilycares/java-lsp/java/parser"
)

const lsName = "java-lsp"

// Server speaks the language server protocol over stdio, backed by the
// workspace index.
type Server struct {
	index   *index.Index
	handler protocol.Handler
	server  *server.Server
	version string
	rootDir string
}

func NewServer(version string) *Server {
	s := &Server{
		index:   index.New(),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentDefinition: s.textDocumentDefinition,
	}

	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.rootDir = "."
	if params.RootPath != nil && *params.RootPath != "" {
		s.rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			s.rootDir = path
		}
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.index.ScanDir(s.rootDir)
	for _, jar := range strings.Split(os.Getenv("JAVA_CLASSPATH"), string(os.PathListSeparator)) {
		if jar == "" {
			continue
		}
		switch filepath.Ext(jar) {
		case ".jar", ".zip":
			s.index.ScanJar(jar)
		case ".class":
			if class, err := java.LoadClassFile(jar); err == nil {
				s.index.AddClass(class)
			}
		}
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.index.UpdateFile(path, []byte(params.TextDocument.Text))
	s.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.index.UpdateFile(path, []byte(textChange.Text))
			s.publishDiagnostics(ctx, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		s.index.UpdateFile(path, []byte(*params.Text))
	} else {
		s.index.ScanFile(path)
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	info := s.index.GetFile(path)
	if info == nil {
		return
	}

	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError
	source := lsName

	var lexErr *parser.LexError
	if errors.As(info.Err, &lexErr) {
		pos := toProtocolPosition(info.Content, lexErr.Pos)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: &severity,
			Source:   &source,
			Message:  lexErr.Message,
		})
	}
	for _, d := range info.Diagnostics {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(info.Content, d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	info := s.index.GetFile(path)
	if info == nil {
		return nil, nil
	}

	line := int(params.Position.Line)
	col := byteColumn(lineAt(info.Content, line), int(params.Position.Character))
	name := wordAt(info.Content, line, col)
	if name == "" {
		return nil, nil
	}

	class := s.index.Resolve(name, info.Imports)
	if class == nil {
		return nil, nil
	}
	target := s.index.SourceOf(class.FullName())
	if target == "" {
		// Jar classes have no source to jump to.
		return nil, nil
	}

	location := protocol.Location{
		URI:   pathToURI(target),
		Range: declarationRange(s.index.GetFile(target)),
	}
	return location, nil
}

// declarationRange is the range of the type declaration's name, the start
// of the file when no declaration is found.
func declarationRange(info *index.FileInfo) protocol.Range {
	if info == nil || info.AST == nil {
		return protocol.Range{}
	}
	for _, child := range info.AST.Children {
		switch child.Kind {
		case parser.KindClassDecl, parser.KindInterfaceDecl,
			parser.KindEnumDecl, parser.KindRecordDecl, parser.KindAnnotationDecl:
			if id := child.FirstChildOfKind(parser.KindIdentifier); id != nil {
				return toProtocolRange(info.Content, id.Span)
			}
			return toProtocolRange(info.Content, child.Span)
		}
	}
	return protocol.Range{}
}

// lineAt returns the given zero-based line, without its terminator.
func lineAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}

// wordAt extracts the identifier covering the given zero-based position.
// The column is a byte offset into the line.
func wordAt(content []byte, line, col int) string {
	text := lineAt(content, line)
	if col < 0 {
		return ""
	}
	if col > len(text) {
		col = len(text)
	}

	isWord := func(b byte) bool {
		return b == '_' || b == '$' ||
			('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
	}

	start := col
	for start > 0 && isWord(text[start-1]) {
		start--
	}
	end := col
	for end < len(text) && isWord(text[end]) {
		end++
	}
	return text[start:end]
}

// utf16Column converts a byte offset into the line to UTF-16 code units,
// the unit the protocol counts columns in.
func utf16Column(text string, byteCol int) int {
	units := 0
	for i, r := range text {
		if i >= byteCol {
			break
		}
		units++
		if r > 0xFFFF {
			units++
		}
	}
	return units
}

// byteColumn converts a protocol column in UTF-16 code units back to a
// byte offset into the line.
func byteColumn(text string, utf16Col int) int {
	units := 0
	for i, r := range text {
		if units >= utf16Col {
			return i
		}
		units++
		if r > 0xFFFF {
			units++
		}
	}
	return len(text)
}

func toProtocolPosition(content []byte, pos parser.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(utf16Column(lineAt(content, pos.Line), pos.Col)),
	}
}

func toProtocolRange(content []byte, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(content, span.Start),
		End:   toProtocolPosition(content, span.End),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
