package css

// UserAgentStylesheet holds the default display/typography rules every
// document starts from, modeled on the HTML5 rendering hints in the
// HTML Standard's "Suggested default rendering" section.
var UserAgentStylesheet = `
html, body, div, article, aside, footer, header, nav, section,
main, figure, figcaption, blockquote, pre, address {
	display: block;
}

body {
	margin-top: 8px;
	margin-right: 8px;
	margin-bottom: 8px;
	margin-left: 8px;
}

h1, h2, h3, h4, h5, h6 {
	display: block;
	font-weight: bold;
}

h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; }
h4 { font-size: 1em; margin-top: 1.33em; margin-bottom: 1.33em; }
h5 { font-size: 0.83em; margin-top: 1.67em; margin-bottom: 1.67em; }
h6 { font-size: 0.67em; margin-top: 2.33em; margin-bottom: 2.33em; }

p {
	display: block;
	margin-top: 1em;
	margin-bottom: 1em;
}

blockquote {
	display: block;
	margin-top: 1em;
	margin-bottom: 1em;
	margin-left: 40px;
	margin-right: 40px;
}

pre {
	display: block;
	font-family: monospace;
	white-space: pre;
	margin-top: 1em;
	margin-bottom: 1em;
}

ul, ol {
	display: block;
	margin-top: 1em;
	margin-bottom: 1em;
	padding-left: 40px;
}

ul { list-style-type: disc; }
ol { list-style-type: decimal; }
li { display: list-item; }

dl { display: block; margin-top: 1em; margin-bottom: 1em; }
dt { display: block; }
dd { display: block; margin-left: 40px; }

a:link { color: blue; text-decoration: underline; }

strong, b { font-weight: bold; }
em, i, cite, var, dfn { font-style: italic; }
u, ins { text-decoration: underline; }
s, strike, del { text-decoration: line-through; }
small { font-size: smaller; }
big { font-size: larger; }
sub { font-size: smaller; vertical-align: sub; }
sup { font-size: smaller; vertical-align: super; }

code, kbd, samp, tt { font-family: monospace; }

span, a, em, strong, b, i, u, s, sub, sup, small, big,
code, kbd, samp, tt, var, cite, dfn, abbr, mark, q, time, data, output,
img, iframe, video, audio, object, embed, canvas, svg, br, wbr {
	display: inline;
}

mark { background-color: yellow; color: black; }

hr {
	display: block;
	margin-top: 0.5em;
	margin-bottom: 0.5em;
	border-top-style: inset;
	border-top-width: 1px;
}

table { display: block; border-collapse: separate; }
caption { display: block; text-align: center; }
thead, tbody, tfoot { display: block; }
tr { display: block; }
td, th { display: block; padding-top: 1px; padding-right: 1px; padding-bottom: 1px; padding-left: 1px; }
th { font-weight: bold; text-align: center; }

input, button, select, textarea { display: inline-block; }
button { text-align: center; }

fieldset {
	display: block;
	margin-left: 2px;
	margin-right: 2px;
	padding-top: 0.35em;
	padding-bottom: 0.625em;
	padding-left: 0.75em;
	padding-right: 0.75em;
	border-top-style: groove;
	border-right-style: groove;
	border-bottom-style: groove;
	border-left-style: groove;
	border-top-width: 2px;
	border-right-width: 2px;
	border-bottom-width: 2px;
	border-left-width: 2px;
}

legend { display: block; padding-left: 2px; padding-right: 2px; }

head, meta, link, style, script, title, noscript, template {
	display: none;
}

[hidden] { display: none; }

details, summary, figure, article, aside, nav, section, header, footer, main, hgroup {
	display: block;
}

figcaption { display: block; }

figure {
	margin-top: 1em;
	margin-bottom: 1em;
	margin-left: 40px;
	margin-right: 40px;
}

bdi { unicode-bidi: isolate; }
bdo { unicode-bidi: bidi-override; }

address { display: block; font-style: italic; }
`

// GetUserAgentStylesheet parses the default stylesheet on every call and
// returns the resulting fresh StyleSheet for a StyleResolver.
func GetUserAgentStylesheet() *StyleSheet {
	return ParseStyleSheet(UserAgentStylesheet, OriginUserAgent)
}
