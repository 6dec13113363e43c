package htmltree

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToCompletion(t *testing.T, html string) *StreamParser {
	t.Helper()
	p := NewStreamParser(strings.NewReader(html), nil)
	for i := 0; i < 10000; i++ {
		switch p.Step() {
		case Completed:
			return p
		case Blocked:
			switch p.Reason().Kind {
			case ReasonStyle:
				_, err := p.ExtractStyleContent()
				require.NoError(t, err)
			case ReasonScript:
				_, err := p.ExtractScriptContent()
				require.NoError(t, err)
			}
			p.Resume()
		}
	}
	t.Fatal("parser did not complete")
	return nil
}

func TestStreamParserMinimalDocument(t *testing.T) {
	p := runToCompletion(t, `<!doctype html><html><head></head><body><p>hi</p></body></html>`)
	doc := p.Finalize()

	htmlIDs := doc.ByTag("html")
	require.Len(t, htmlIDs, 1)

	bodyIDs := doc.ByTag("body")
	require.Len(t, bodyIDs, 1)

	ps := doc.ByTag("p")
	require.Len(t, ps, 1)
	assert.Equal(t, "hi", doc.TextContent(ps[0]))
}

func TestStreamParserInlineStyleSuspends(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body><p>x</p></body></html>`
	p := NewStreamParser(strings.NewReader(html), nil)

	var sawStyle bool
	var styleText string
	for i := 0; i < 10000; i++ {
		st := p.Step()
		if st == Completed {
			break
		}
		if st == Blocked && p.Reason().Kind == ReasonStyle {
			sawStyle = true
			text, err := p.ExtractStyleContent()
			require.NoError(t, err)
			styleText = text
			p.Resume()
		}
	}
	require.True(t, sawStyle)
	assert.Equal(t, "p{color:red}", styleText)

	doc := p.Finalize()
	ps := doc.ByTag("p")
	require.Len(t, ps, 1)
	assert.Equal(t, "x", doc.TextContent(ps[0]))

	// The <style> element itself must not have swallowed the <body> that
	// follows it: open-element stack must stay balanced across extraction.
	bodies := doc.ByTag("body")
	require.Len(t, bodies, 1)
	assert.Contains(t, doc.Node(bodies[0]).Children(), ps[0])
}

func TestStreamParserScriptSuspends(t *testing.T) {
	html := `<body><script>if (a < b) { x(); }</script><p>after</p></body>`
	p := NewStreamParser(strings.NewReader(html), nil)

	var scriptText string
	for i := 0; i < 10000; i++ {
		st := p.Step()
		if st == Completed {
			break
		}
		if st == Blocked && p.Reason().Kind == ReasonScript {
			text, err := p.ExtractScriptContent()
			require.NoError(t, err)
			scriptText = text
			p.Resume()
		}
	}
	assert.Equal(t, "if (a < b) { x(); }", scriptText)

	doc := p.Finalize()
	ps := doc.ByTag("p")
	require.Len(t, ps, 1)
	assert.Equal(t, "after", doc.TextContent(ps[0]))
}

func TestStreamParserVoidElementsNeverNest(t *testing.T) {
	p := runToCompletion(t, `<div><img src="a.png"><span>x</span></div>`)
	doc := p.Finalize()

	imgs := doc.ByTag("img")
	require.Len(t, imgs, 1)
	assert.Empty(t, doc.Node(imgs[0]).Children())

	spans := doc.ByTag("span")
	require.Len(t, spans, 1)
	divs := doc.ByTag("div")
	require.Len(t, divs, 1)
	children := doc.Node(divs[0]).Children()
	require.Len(t, children, 2)
	assert.Equal(t, imgs[0], children[0])
	assert.Equal(t, spans[0], children[1])
}

func TestStreamParserAutoClosesParagraph(t *testing.T) {
	p := runToCompletion(t, `<div><p>one<p>two</div>`)
	doc := p.Finalize()

	ps := doc.ByTag("p")
	require.Len(t, ps, 2)

	divs := doc.ByTag("div")
	require.Len(t, divs, 1)
	children := doc.Node(divs[0]).Children()
	require.Len(t, children, 2, "second <p> must be a sibling of the first, not nested inside it")
	assert.Equal(t, ps[0], children[0])
	assert.Equal(t, ps[1], children[1])

	assert.Equal(t, "one", doc.TextContent(ps[0]))
	assert.Equal(t, "two", doc.TextContent(ps[1]))
}

func TestStreamParserChunkingIsTokenDeterministic(t *testing.T) {
	html := `<div class="a"><span>hello world</span></div>`
	whole := runToCompletion(t, html)
	wholeDoc := whole.Finalize()

	// Force many tiny reads (1 byte at a time) so chunk boundaries fall in
	// the middle of tags and entities, and confirm the result is identical
	// to a parse that read everything in one shot.
	p := NewStreamParser(&oneByteReader{data: []byte(html)}, nil)
	for i := 0; i < 1_000_000; i++ {
		if p.Step() == Completed {
			break
		}
	}
	doc := p.Finalize()

	assert.Equal(t, wholeDoc.Len(), doc.Len())
	spans := doc.ByTag("span")
	require.Len(t, spans, 1)
	assert.Equal(t, "hello world", doc.TextContent(spans[0]))
}

// oneByteReader yields at most one byte per Read call so UTF-8 chunk
// boundaries are exercised even for single multi-byte runes.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestStreamParserHandlesMultiByteRuneSplitAcrossReads(t *testing.T) {
	// "café" — the é is a 2-byte UTF-8 sequence; oneByteReader forces it to
	// be read one byte at a time, exercising the incomplete-sequence
	// hold-back in Step.
	html := `<p>café</p>`
	p := NewStreamParser(&oneByteReader{data: []byte(html)}, nil)
	for i := 0; i < 10000; i++ {
		if p.Step() == Completed {
			break
		}
	}
	doc := p.Finalize()
	ps := doc.ByTag("p")
	require.Len(t, ps, 1)
	assert.Equal(t, "café", doc.TextContent(ps[0]))
}
