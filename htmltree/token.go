// Package htmltree implements a streaming HTML tokenizer and tree builder.
//
// The tokenizer is a character-driven state machine (spec'd after the WHATWG
// HTML5 tokenization states) rather than a wrapper over an existing parser:
// it exposes explicit suspension points so a caller can interleave network
// fetches between tokenizer steps, the way a real browser's HTML parser
// yields to the resource loader on <script>/<style>/<link>.
package htmltree

import "strings"

// TokenKind enumerates the token shapes this tokenizer emits.
type TokenKind int

const (
	StartTag TokenKind = iota
	EndTag
	Text
	Doctype
	Comment
	XMLDeclaration
)

// Token is the tokenizer's output unit. Attributes is nil for non-tag
// kinds.
type Token struct {
	Kind       TokenKind
	Data       string // tag name for Start/EndTag, text for Text/Comment/Doctype
	Attributes map[string]string
	SelfClosing bool
}

// state is the tokenizer's current position in the HTML5 state machine.
type state int

const (
	stateData state = iota
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateBeforeAttributeName
	stateAttributeName
	stateAfterAttributeName
	stateBeforeAttributeValue
	stateAttributeValueDouble
	stateAttributeValueSingle
	stateAttributeValueUnquoted
	stateAfterAttributeValueQuoted
	stateSelfClosingTagStart
	stateScriptData
	stateStyleData
	stateStartDeclaration // doctype / comment / bogus comment dispatch
	stateComment
	stateXMLDeclaration
)

// Tokenizer is a reusable, allocation-light character state machine. It
// does not allocate per character: current tag/attribute data lives in
// scratch fields that are reset in place between tokens.
type Tokenizer struct {
	state state

	// scratch for the token under construction
	curKind       TokenKind
	curTagName    strings.Builder
	curAttrs      map[string]string
	curAttrName   strings.Builder
	curAttrValue  strings.Builder
	curText       strings.Builder
	selfClosing   bool

	insidePreformatted bool

	// rawEndTag is the lowercased end tag name that ends ScriptData/StyleData
	// ("script" or "style").
	rawEndTag string

	// pendingRawAttrs holds the attributes of the <script>/<style> start
	// tag that just put the tokenizer into a raw-text state, so the
	// stream driver can report them in a ReasonScript/ReasonStyle
	// suspension reason.
	pendingRawAttrs map[string]string
}

// NewTokenizer creates a tokenizer starting in the Data state.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{state: stateData}
}

// SetPreformatted toggles whitespace-preservation for the <pre> tag.
func (t *Tokenizer) SetPreformatted(v bool) { t.insidePreformatted = v }

// ProcessChar is the tokenizer's pure per-character step: given the current
// state and input rune, it advances state and appends any completed tokens
// to out. It never allocates a new token slot per character; only a
// completed token is appended to out.
func (t *Tokenizer) ProcessChar(ch rune, out *[]Token) {
	switch t.state {
	case stateData:
		t.stepData(ch, out)
	case stateTagOpen:
		t.stepTagOpen(ch, out)
	case stateEndTagOpen:
		t.stepEndTagOpen(ch, out)
	case stateTagName:
		t.stepTagName(ch, out)
	case stateBeforeAttributeName:
		t.stepBeforeAttributeName(ch, out)
	case stateAttributeName:
		t.stepAttributeName(ch, out)
	case stateAfterAttributeName:
		t.stepAfterAttributeName(ch, out)
	case stateBeforeAttributeValue:
		t.stepBeforeAttributeValue(ch, out)
	case stateAttributeValueDouble:
		t.stepAttributeValue(ch, '"', out)
	case stateAttributeValueSingle:
		t.stepAttributeValue(ch, '\'', out)
	case stateAttributeValueUnquoted:
		t.stepAttributeValueUnquoted(ch, out)
	case stateAfterAttributeValueQuoted:
		t.stepAfterAttributeValueQuoted(ch, out)
	case stateSelfClosingTagStart:
		t.stepSelfClosingTagStart(ch, out)
	case stateStartDeclaration:
		t.stepStartDeclaration(ch, out)
	case stateComment:
		t.stepComment(ch, out)
	case stateXMLDeclaration:
		t.stepXMLDeclaration(ch, out)
	case stateDoctypeBody:
		t.stepDoctypeBody(ch, out)
	}
}

func (t *Tokenizer) resetTag(kind TokenKind) {
	t.curKind = kind
	t.curTagName.Reset()
	t.curAttrs = nil
	t.selfClosing = false
}

func (t *Tokenizer) emitText(out *[]Token) {
	if t.curText.Len() == 0 {
		return
	}
	text := decodeEntities(t.curText.String())
	t.curText.Reset()
	if !t.insidePreformatted {
		text = collapseWhitespace(text)
		if text == "" {
			return
		}
	}
	*out = append(*out, Token{Kind: Text, Data: text})
}

// collapseWhitespace folds runs of HTML whitespace into a single space,
// and drops text that is whitespace only. Inside <pre> the tokenizer skips
// this entirely.
func collapseWhitespace(s string) string {
	var b strings.Builder
	inWS := false
	for _, ch := range s {
		if isWhitespace(ch) {
			inWS = true
			continue
		}
		if inWS {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(ch)
	}
	if inWS {
		b.WriteByte(' ')
	}
	out := b.String()
	if out == " " {
		return ""
	}
	return out
}

func (t *Tokenizer) stepData(ch rune, out *[]Token) {
	if ch == '<' {
		t.emitText(out)
		t.state = stateTagOpen
		return
	}
	t.curText.WriteRune(ch)
}

func (t *Tokenizer) stepTagOpen(ch rune, out *[]Token) {
	switch {
	case ch == '/':
		t.state = stateEndTagOpen
	case ch == '!':
		t.state = stateStartDeclaration
	case ch == '?':
		t.resetTag(XMLDeclaration)
		t.curTagName.Reset()
		t.state = stateXMLDeclaration
	case isASCIILetter(ch):
		t.resetTag(StartTag)
		t.curTagName.WriteRune(lower(ch))
		t.state = stateTagName
	default:
		// Not a valid tag open; treat '<' and ch as text — the tokenizer
		// never errors on malformed input.
		t.curText.WriteByte('<')
		t.curText.WriteRune(ch)
		t.state = stateData
	}
}

func (t *Tokenizer) stepEndTagOpen(ch rune, out *[]Token) {
	if isASCIILetter(ch) {
		t.resetTag(EndTag)
		t.curTagName.WriteRune(lower(ch))
		t.state = stateTagName
		return
	}
	// Bogus end tag (e.g. "</>"): ignore back to data.
	t.state = stateData
}

func (t *Tokenizer) stepTagName(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		t.state = stateBeforeAttributeName
	case ch == '/':
		t.state = stateSelfClosingTagStart
	case ch == '>':
		t.finishTag(out)
	default:
		t.curTagName.WriteRune(lower(ch))
	}
}

func (t *Tokenizer) stepBeforeAttributeName(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		// skip
	case ch == '/':
		t.state = stateSelfClosingTagStart
	case ch == '>':
		t.finishTag(out)
	default:
		t.curAttrName.Reset()
		t.curAttrName.WriteRune(lower(ch))
		t.curAttrValue.Reset()
		t.state = stateAttributeName
	}
}

func (t *Tokenizer) stepAttributeName(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		t.commitAttrNameOnly()
		t.state = stateAfterAttributeName
	case ch == '/':
		t.commitAttrNameOnly()
		t.state = stateSelfClosingTagStart
	case ch == '=':
		t.state = stateBeforeAttributeValue
	case ch == '>':
		t.commitAttrNameOnly()
		t.finishTag(out)
	default:
		t.curAttrName.WriteRune(lower(ch))
	}
}

func (t *Tokenizer) stepAfterAttributeName(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		// skip
	case ch == '/':
		t.state = stateSelfClosingTagStart
	case ch == '=':
		t.state = stateBeforeAttributeValue
	case ch == '>':
		t.finishTag(out)
	default:
		t.curAttrName.Reset()
		t.curAttrName.WriteRune(lower(ch))
		t.curAttrValue.Reset()
		t.state = stateAttributeName
	}
}

func (t *Tokenizer) stepBeforeAttributeValue(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		// skip
	case ch == '"':
		t.state = stateAttributeValueDouble
	case ch == '\'':
		t.state = stateAttributeValueSingle
	case ch == '>':
		t.commitAttrNameOnly()
		t.finishTag(out)
	default:
		t.curAttrValue.WriteRune(ch)
		t.state = stateAttributeValueUnquoted
	}
}

func (t *Tokenizer) stepAttributeValue(ch rune, quote rune, out *[]Token) {
	if ch == quote {
		t.commitAttr()
		t.state = stateAfterAttributeValueQuoted
		return
	}
	t.curAttrValue.WriteRune(ch)
}

func (t *Tokenizer) stepAttributeValueUnquoted(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		t.commitAttr()
		t.state = stateBeforeAttributeName
	case ch == '>':
		t.commitAttr()
		t.finishTag(out)
	default:
		t.curAttrValue.WriteRune(ch)
	}
}

func (t *Tokenizer) stepAfterAttributeValueQuoted(ch rune, out *[]Token) {
	switch {
	case isWhitespace(ch):
		t.state = stateBeforeAttributeName
	case ch == '/':
		t.state = stateSelfClosingTagStart
	case ch == '>':
		t.finishTag(out)
	default:
		// Parse error per spec; reconsume in BeforeAttributeName.
		t.state = stateBeforeAttributeName
		t.stepBeforeAttributeName(ch, out)
	}
}

func (t *Tokenizer) stepSelfClosingTagStart(ch rune, out *[]Token) {
	if ch == '>' {
		t.selfClosing = true
		t.finishTag(out)
		return
	}
	// Not actually self-closing; reconsume as an attribute boundary.
	t.state = stateBeforeAttributeName
	t.stepBeforeAttributeName(ch, out)
}

func (t *Tokenizer) commitAttrNameOnly() {
	name := t.curAttrName.String()
	if name == "" {
		return
	}
	if t.curAttrs == nil {
		t.curAttrs = make(map[string]string)
	}
	if _, exists := t.curAttrs[name]; !exists {
		t.curAttrs[name] = ""
	}
}

func (t *Tokenizer) commitAttr() {
	name := t.curAttrName.String()
	if name == "" {
		return
	}
	if t.curAttrs == nil {
		t.curAttrs = make(map[string]string)
	}
	if _, exists := t.curAttrs[name]; !exists {
		t.curAttrs[name] = decodeEntities(t.curAttrValue.String())
	}
}

func (t *Tokenizer) finishTag(out *[]Token) {
	name := t.curTagName.String()
	tok := Token{Kind: t.curKind, Data: name, Attributes: t.curAttrs, SelfClosing: t.selfClosing}
	*out = append(*out, tok)

	switch {
	case t.curKind == StartTag && name == "script" && !t.selfClosing:
		t.rawEndTag = "script"
		t.pendingRawAttrs = t.curAttrs
		t.state = stateScriptData
	case t.curKind == StartTag && name == "style" && !t.selfClosing:
		t.rawEndTag = "style"
		t.pendingRawAttrs = t.curAttrs
		t.state = stateStyleData
	default:
		t.state = stateData
	}
}

func (t *Tokenizer) stepStartDeclaration(ch rune, out *[]Token) {
	// Dispatch between doctype, comment, and bogus comment. For the subset
	// this engine targets, anything starting "--" is a comment and
	// anything else up to '>' is folded into a Doctype token (close
	// enough for documents in the wild; a full
	// bogus-comment state is not separately modeled).
	if ch == '-' {
		t.curText.Reset()
		t.state = stateComment
		return
	}
	t.curKind = Doctype
	t.curText.Reset()
	if ch != '>' {
		t.curText.WriteRune(ch)
	}
	t.state = stateDoctypeBody
}

// stateDoctypeBody consumes a doctype (or bogus comment) body up to '>'.
// It is numbered outside the main iota block because it is reached only
// from stepStartDeclaration's dispatch, not from the steady-state table.
const stateDoctypeBody = state(100)

func (t *Tokenizer) stepComment(ch rune, out *[]Token) {
	s := t.curText.String()
	if len(s) >= 2 && s[len(s)-2] == '-' && s[len(s)-1] == '-' && ch == '>' {
		body := strings.TrimSuffix(s, "--")
		*out = append(*out, Token{Kind: Comment, Data: body})
		t.curText.Reset()
		t.state = stateData
		return
	}
	t.curText.WriteRune(ch)
}

func (t *Tokenizer) stepXMLDeclaration(ch rune, out *[]Token) {
	if ch == '>' {
		*out = append(*out, Token{Kind: XMLDeclaration, Data: t.curText.String()})
		t.curText.Reset()
		t.state = stateData
		return
	}
	t.curText.WriteRune(ch)
}

// stepDoctypeBody handles the synthetic stateDoctypeBody value.
func (t *Tokenizer) stepDoctypeBody(ch rune, out *[]Token) {
	if ch == '>' {
		*out = append(*out, Token{Kind: Doctype, Data: strings.TrimSpace(t.curText.String())})
		t.curText.Reset()
		t.state = stateData
		return
	}
	t.curText.WriteRune(ch)
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isASCIILetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func lower(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A' + 'a'
	}
	return ch
}
