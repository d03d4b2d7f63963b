package parser

// The parser recognizes the declaration structure of a Java source file:
// package and import clauses, type declarations, and their members. Method
// and initializer bodies are scanned for brace balance but not parsed
// further. Syntax errors become error nodes in the tree; parsing always
// continues at the next member boundary so that the surrounding
// declarations survive.

// ParseFile lexes and parses source in one step. A lexical error aborts the
// whole parse; syntactic errors do not, they are recorded as error nodes.
func ParseFile(source []byte, file string) (*Node, error) {
	tokens, err := Lex(source, file)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens), nil
}

// ParseTokens parses an already-lexed token stream. Comment tokens are
// ignored. The result is never nil: an empty stream yields an empty
// compilation unit.
func ParseTokens(tokens []Token) *Node {
	filtered := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			continue
		}
		filtered = append(filtered, tok)
	}
	p := &Parser{tokens: filtered}
	return p.parseCompilationUnit()
}

type Parser struct {
	tokens []Token
	pos    int
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent,
		TokenVar, TokenYield, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits:
		return true
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// finishNode stamps the node's end from the last consumed token and then
// widens the span over all children, so a declaration node covers the
// modifiers and type nodes parsed before it was started. A node that
// consumed no tokens collapses to an empty span at its start.
func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = n.Span.Start
	}
	if lessPos(n.Span.End, n.Span.Start) {
		n.Span.End = n.Span.Start
	}
	for _, child := range n.Children {
		if lessPos(child.Span.Start, n.Span.Start) {
			n.Span.Start = child.Span.Start
		}
		if lessPos(n.Span.End, child.Span.End) {
			n.Span.End = child.Span.End
		}
	}
	return n
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// errorHere records an error at the current token without consuming it,
// for spots where the next token is already a usable continuation.
func (p *Parser) errorHere(msg string, expected ...TokenKind) *Node {
	tok := p.peek()
	return &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		p.advance()
	}
}

var memberRecoverTokens = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenNative,
	TokenSynchronized, TokenTransient, TokenVolatile,
	TokenStrictfp, TokenDefault, TokenSealed, TokenNonSealed,
	TokenClass, TokenInterface, TokenEnum, TokenRecord,
	TokenSemicolon, TokenRBrace,
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) {
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		// Skip stray semicolons at top level (empty declarations)
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseTypeDecl())
	}

	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	save := p.pos
	for p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.skipAnnotation()
	}
	isPackage := p.check(TokenPackage)
	p.pos = save
	return isPackage
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenStatic) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenDot) {
		p.advance()
		if tok := p.expect(TokenStar); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	} else {
		return p.errorNode("expected identifier", nil, TokenIdent)
	}

	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	return p.finishNode(node)
}

// Name returns the dotted form of a qualified name node.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindIdentifier {
		return n.TokenLiteral()
	}
	name := ""
	for _, child := range n.Children {
		if child.Kind != KindIdentifier {
			continue
		}
		if name != "" {
			name += "."
		}
		name += child.TokenLiteral()
	}
	return name
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		return p.parseRecordDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	recoverTokens := []TokenKind{
		TokenAt, TokenPublic, TokenPrivate, TokenProtected,
		TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
		TokenClass, TokenInterface, TokenEnum, TokenRecord,
	}
	if modifiers != nil && len(modifiers.Children) > 0 {
		return p.errorNode("expected class, interface, enum, record, or @interface", recoverTokens,
			TokenClass, TokenInterface, TokenEnum, TokenRecord)
	}

	return p.errorNode("expected type declaration", recoverTokens,
		TokenClass, TokenInterface, TokenEnum, TokenRecord)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenSealed, TokenNonSealed:
			tok := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		default:
			return p.finishNode(node)
		}
	}
}

// parseAnnotation records the annotation's name; its arguments are skipped
// with balanced parentheses since they carry no declaration structure.
func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())

	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) skipAnnotation() {
	p.advance()
	for p.check(TokenIdent) {
		p.advance()
		if p.check(TokenDot) {
			p.advance()
		} else {
			break
		}
	}
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
}

// skipBalanced consumes an open token and everything through its matching
// close token, tracking nesting. At EOF it stops without closing.
func (p *Parser) skipBalanced(open, close TokenKind) {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case open:
			depth++
		case close:
			depth--
		}
		p.advance()
		if depth == 0 {
			return
		}
	}
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNode(KindClassDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenClass)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	if p.check(TokenExtends) {
		clause := p.startNode(KindExtendsClause)
		p.advance()
		clause.AddChild(p.parseType())
		node.AddChild(p.finishNode(clause))
	}

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeClause(kind NodeKind) *Node {
	clause := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		clause.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(clause)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNode(KindInterfaceDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenInterface)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}

	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNode(KindEnumDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenEnum)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	p.expect(TokenLBrace)

	for p.isIdentifierLike() || p.check(TokenAt) {
		node.AddChild(p.parseEnumConstant())
		if p.check(TokenComma) {
			p.advance()
		} else {
			break
		}
	}

	if p.check(TokenSemicolon) {
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseClassMember())
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startNode(KindRecordDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenRecord)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNode(KindAnnotationDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenAt)
	p.expect(TokenInterface)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

// parseType accepts primitives, qualified class names, and array suffixes.
// Type arguments are recognized and skipped: the declaration model erases
// generics.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid, TokenVar:
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	case TokenIdent:
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
		// Inner class after type arguments: Outer<T>.Inner
		for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.advance()
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				p.skipTypeArguments()
			}
		}
	default:
		return p.errorNode("expected type", []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace},
			TokenIdent)
	}

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		wrapper := p.startNode(KindArrayType)
		p.advance()
		p.advance()
		wrapper.AddChild(node)
		node = p.finishNode(wrapper)
	}

	return p.finishNode(node)
}

// skipTypeArguments consumes a < ... > run, counting angle nesting. Shift
// tokens close multiple levels at once.
func (p *Parser) skipTypeArguments() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenSemicolon, TokenLBrace, TokenRBrace:
			// A type argument list never contains these; bail out
			// rather than eat the rest of the file.
			return
		}
		p.advance()
		if depth <= 0 {
			return
		}
	}
}

func (p *Parser) parseClassBody() *Node {
	node := p.startNode(KindBody)
	if p.expect(TokenLBrace) == nil {
		node.AddChild(p.errorNode("expected '{'", []TokenKind{TokenLBrace, TokenRBrace}, TokenLBrace))
		if !p.check(TokenLBrace) {
			return p.finishNode(node)
		}
		p.advance()
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseClassMember())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) {
		return p.parseInitializerBlock(nil)
	}

	if p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace {
		tok := p.advance()
		marker := &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
		return p.parseInitializerBlock(marker)
	}

	if p.check(TokenSemicolon) {
		p.advance()
		return nil
	}

	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		if p.peekN(1).Kind == TokenIdent {
			return p.parseRecordDecl(modifiers)
		}
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers)
	}

	// Compact constructor for records: public ClassName { ... }
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseCompactConstructor(modifiers)
	}

	if !p.isIdentifierLike() && !p.match(TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid) {
		return p.errorNode("expected member declaration", memberRecoverTokens,
			TokenIdent, TokenClass, TokenInterface, TokenEnum, TokenRecord)
	}

	typ := p.parseType()

	if p.isIdentifierLike() {
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, typ)
		}
		return p.parseField(modifiers, typ)
	}

	return p.errorNode("expected member declaration", memberRecoverTokens, TokenIdent)
}

// parseInitializerBlock handles static and instance initializers. marker is
// the "static" token node, or nil for an instance initializer.
func (p *Parser) parseInitializerBlock(marker *Node) *Node {
	node := p.startNode(KindInitializerBlock)
	if marker != nil {
		node.Span.Start = marker.Span.Start
		node.AddChild(marker)
	}
	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

func (p *Parser) parseConstructor(modifiers *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

// parseCompactConstructor parses a record's compact constructor, which has
// no parameter list: public ClassName { ... }
func (p *Parser) parseCompactConstructor(modifiers *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	paramsNode := p.startNode(KindParameters)
	node.AddChild(p.finishNode(paramsNode))

	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers *Node, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}
	if returnType != nil {
		node.AddChild(returnType)
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	node.AddChild(p.parseParameters())

	// Legacy array syntax after the parameter list: int foo()[]
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.parseBody())
	case p.check(TokenDefault):
		// Annotation member default value; skip to the semicolon.
		p.advance()
		p.skipTo(TokenSemicolon)
		p.expect(TokenSemicolon)
	default:
		if p.expect(TokenSemicolon) == nil {
			node.AddChild(p.errorNode("expected ';' or method body", memberRecoverTokens,
				TokenSemicolon, TokenLBrace))
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseField(modifiers *Node, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}
	if typ != nil {
		node.AddChild(typ)
	}

	for {
		progress := p.mustProgress()
		if tok := p.expectIdentifier(); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}

		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
		}

		if p.check(TokenAssign) {
			p.advance()
			if p.match(TokenComma, TokenSemicolon) {
				node.AddChild(p.errorHere("expected initializer expression"))
			} else {
				p.skipInitializer()
			}
		}

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';'", memberRecoverTokens, TokenSemicolon))
	}
	return p.finishNode(node)
}

// skipInitializer consumes a field initializer expression up to the next
// comma or semicolon at nesting depth zero.
func (p *Parser) skipInitializer() {
	depth := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			depth--
		case TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		case TokenComma, TokenSemicolon:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) skipTo(kind TokenKind) {
	for !p.check(TokenEOF) && !p.check(kind) {
		p.advance()
	}
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	if p.expect(TokenLParen) == nil {
		node.AddChild(p.errorNode("expected '('", []TokenKind{TokenLParen, TokenLBrace, TokenSemicolon}, TokenLParen))
		if !p.check(TokenLParen) {
			return p.finishNode(node)
		}
		p.advance()
	}

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	if p.expect(TokenRParen) == nil {
		node.AddChild(p.errorHere("expected ')'", TokenRParen))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseType())

	if p.check(TokenEllipsis) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	// Legacy array syntax after the name: int args[]
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}

	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

// parseBody consumes a brace-balanced method or initializer body without
// interpreting the statements inside.
func (p *Parser) parseBody() *Node {
	node := p.startNode(KindBody)
	if !p.check(TokenLBrace) {
		node.AddChild(p.errorNode("expected '{'", memberRecoverTokens, TokenLBrace))
		return p.finishNode(node)
	}
	p.skipBalanced(TokenLBrace, TokenRBrace)
	return p.finishNode(node)
}
