package htmltree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aldermoss/enginecore/dom"
)

// chunkSize is the default read size for the streaming parser.
const chunkSize = 8 * 1024

// State is the streaming parser's suspension status.
type State int

const (
	Running State = iota
	Blocked
	Completed
)

// ReasonKind enumerates why the parser suspended.
type ReasonKind int

const (
	ReasonScript ReasonKind = iota
	ReasonStyle
	ReasonResource
	ReasonSVG
)

// Reason describes a suspension point. Attrs is populated for
// ReasonScript/ReasonStyle; ResourceKind/Href for ReasonResource
// (currently emitted for <link rel="stylesheet">).
type Reason struct {
	Kind         ReasonKind
	Attrs        map[string]string
	ResourceKind string
	Href         string
}

// StreamParser drives a Tokenizer + Builder over a byte source in fixed
// chunks, suspending at script/style/resource/SVG boundaries instead of
// relying on goroutines or channels — callers pump it explicitly so tests
// (and the navigation orchestrator) can interleave network I/O
// deterministically, without relying on generators or async.
type StreamParser struct {
	src io.Reader

	tok     *Tokenizer
	builder *Builder

	// buf holds bytes read from src but not yet consumed as runes: either
	// trailing bytes of an incomplete UTF-8 sequence, or (while Blocked)
	// the raw bytes following a <script>/<style> start tag, not yet
	// scanned for the matching end tag.
	buf []byte

	state  State
	reason Reason
	eof    bool

	pendingTag string // "script" or "style": which raw state we entered
}

// NewStreamParser creates a parser reading from src and feeding tok into
// collector via Builder.
func NewStreamParser(src io.Reader, collector Collector) *StreamParser {
	return &StreamParser{
		src:     src,
		tok:     NewTokenizer(),
		builder: NewBuilder(collector),
		state:   Running,
	}
}

// Document exposes the in-progress (or finished) document. At every
// suspension boundary it contains exactly the elements whose end (or void)
// tag has been observed, plus open elements with their children so far.
func (p *StreamParser) Document() *dom.Document { return p.builder.Document() }

// Step processes the next chunk (or leftover buffer) of input, emits
// tokens into the builder, and returns the resulting state. Returns
// immediately without reading if already Blocked or Completed.
func (p *StreamParser) Step() State {
	if p.state != Running {
		return p.state
	}

	if !p.eof {
		if err := p.fill(); err != nil && err != io.EOF {
			// Transport-level read failure: treat as end of input: the
			// caller surfaces this via Finalize's partial DOM.
			p.eof = true
		}
	}

	var tokens []Token
	for len(p.buf) > 0 {
		r, size := utf8.DecodeRune(p.buf)
		if r == utf8.RuneError && size <= 1 {
			// Either truly invalid, or an incomplete sequence at the end
			// of the buffer: if more bytes might still complete it, hold
			// it back so a chunk boundary never splits an observable
			// token. At EOF there is nothing left to wait for.
			if !p.eof && len(p.buf) < utf8.UTFMax {
				break
			}
			size = 1
		}
		p.buf = p.buf[size:]

		p.tok.ProcessChar(r, &tokens)
		for _, t := range tokens {
			p.handleToken(t)
		}
		tokens = tokens[:0]

		if p.tok.state == stateScriptData || p.tok.state == stateStyleData {
			// The unscanned remainder of the chunk stays in buf; it is the
			// beginning of the raw <script>/<style> body ExtractScriptContent
			// and ExtractStyleContent consume.
			p.suspendOnRawText()
			return p.state
		}
		if p.state != Running {
			// handleToken suspended on a <link>/<svg>; the rest of the
			// buffer stays queued for after Resume.
			return p.state
		}
	}

	if len(p.buf) == 0 && p.eof {
		// Flush a final text run (stepData never sees a trailing '<').
		var final []Token
		p.tok.emitText(&final)
		for _, t := range final {
			p.handleToken(t)
		}
		p.state = Completed
	}

	return p.state
}

func (p *StreamParser) suspendOnRawText() {
	p.pendingTag = stateRawTagName(p.tok.state)
	p.state = Blocked
	if p.pendingTag == "script" {
		p.reason = Reason{Kind: ReasonScript, Attrs: p.tok.pendingRawAttrs}
	} else {
		p.reason = Reason{Kind: ReasonStyle, Attrs: p.tok.pendingRawAttrs}
	}
}

func stateRawTagName(s state) string {
	if s == stateScriptData {
		return "script"
	}
	return "style"
}

func (p *StreamParser) handleToken(t Token) {
	if t.Kind == StartTag {
		switch t.Data {
		case "pre":
			p.tok.SetPreformatted(true)
		case "link":
			if strings.EqualFold(t.Attributes["rel"], "stylesheet") {
				href := t.Attributes["href"]
				if href != "" {
					p.builder.Consume(t)
					p.state = Blocked
					p.reason = Reason{Kind: ReasonResource, ResourceKind: "style", Href: href}
					return
				}
			}
		case "svg":
			p.builder.Consume(t)
			p.state = Blocked
			p.reason = Reason{Kind: ReasonSVG}
			return
		}
	}
	if t.Kind == EndTag && t.Data == "pre" {
		p.tok.SetPreformatted(false)
	}
	p.builder.Consume(t)
}

// Reason returns the reason for the current Blocked state.
func (p *StreamParser) Reason() Reason { return p.reason }

// Resume flips Blocked back to Running.
func (p *StreamParser) Resume() {
	if p.state == Blocked {
		p.state = Running
		p.pendingTag = ""
	}
}

// ExtractScriptContent consumes bytes from the stream up to and including
// the matching "</script>" (case-insensitive) and returns the interior as
// text, without decoding character references (matching HTML5's raw-text
// treatment: no entity decoding inside raw-text bodies). Errors if the
// end tag is never found before EOF.
func (p *StreamParser) ExtractScriptContent() (string, error) {
	return p.extractRawUntil("script")
}

// ExtractStyleContent is ExtractScriptContent for <style>.
func (p *StreamParser) ExtractStyleContent() (string, error) {
	return p.extractRawUntil("style")
}

func (p *StreamParser) extractRawUntil(tag string) (string, error) {
	closeTag := []byte("</" + tag)
	searchFrom := 0
	for {
		idx := indexFoldBytes(p.buf[searchFrom:], closeTag)
		if idx >= 0 {
			idx += searchFrom
			after := idx + len(closeTag)
			if after >= len(p.buf) {
				if p.eof {
					return "", fmt.Errorf("htmltree: unterminated <%s>: missing '>'", tag)
				}
				if err := p.fill(); err != nil && err != io.EOF {
					return "", err
				}
				continue
			}
			// "</scriptfoo>" is body text, not an end tag: the tag name
			// must be followed by '>', '/', or whitespace.
			if c := p.buf[after]; c != '>' && c != '/' && c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '\f' {
				searchFrom = idx + 1
				continue
			}
			gt := bytes.IndexByte(p.buf[after:], '>')
			if gt < 0 {
				if p.eof {
					return "", fmt.Errorf("htmltree: unterminated <%s>: missing '>'", tag)
				}
				if err := p.fill(); err != nil && err != io.EOF {
					return "", err
				}
				continue
			}
			content := string(p.buf[:idx])
			p.buf = p.buf[after+gt+1:]
			p.tok.state = stateData
			// The raw content was consumed directly from the byte stream,
			// bypassing the tokenizer, so no EndTag token was ever
			// produced for the open <script>/<style>; synthesize one so
			// the builder's open-element stack stays balanced.
			p.builder.Consume(Token{Kind: EndTag, Data: tag})
			return content, nil
		}
		if p.eof {
			return "", fmt.Errorf("htmltree: unterminated <%s>: end tag not found before EOF", tag)
		}
		// Keep the last few bytes searchable: a close tag may straddle the
		// chunk boundary.
		if err := p.fill(); err != nil && err != io.EOF {
			return "", err
		}
	}
}

func indexFoldBytes(haystack, needle []byte) int {
	h := strings.ToLower(string(haystack))
	n := strings.ToLower(string(needle))
	return strings.Index(h, n)
}

// Finalize consumes the parser and returns the completed document. It
// panics if the parser has not reached Completed: finalizing a suspended
// parser is a programmer error, not recoverable input.
//
// A document whose parse produced no nodes at all (about:blank, an empty
// or whitespace-only response body) still gets the html/head/body
// scaffold browsers synthesize; any other input, including bare text with
// no tags, is left as parsed.
func (p *StreamParser) Finalize() *dom.Document {
	if p.state != Completed {
		panic("htmltree: Finalize called before parser reached Completed")
	}
	doc := p.builder.Document()
	if len(doc.Node(doc.Root()).Children()) == 0 {
		html := doc.CreateElement(doc.Root(), "html", nil)
		doc.CreateElement(html, "head", nil)
		doc.CreateElement(html, "body", nil)
	}
	return doc
}

// fill reads one more chunk from src into buf, preserving any already
// buffered bytes (including a held-back incomplete UTF-8 tail).
func (p *StreamParser) fill() error {
	chunk := make([]byte, chunkSize)
	n, err := p.src.Read(chunk)
	if n > 0 {
		p.buf = append(p.buf, chunk[:n]...)
	}
	if err == io.EOF {
		p.eof = true
		return io.EOF
	}
	return err
}

