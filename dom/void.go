package dom

// VoidElements is the set of HTML tags that never have children and whose
// start tag is not pushed onto the tree builder's open-element stack.
var VoidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid reports whether tag is a void element.
func IsVoid(tag string) bool { return VoidElements[tag] }
