// Package dom provides an arena-backed Document tree.
//
// Nodes are never linked by pointer. Every node lives in a single
// append-only slice owned by the Document and is referenced everywhere
// else — in style trees, layout trees, and the tree builder's open-element
// stack — by its integer NodeID. This makes cycles structurally impossible
// and lets the whole tree be copied or shared across goroutines by copying
// a handle, not walking a graph.
package dom

import "fmt"

// NodeID identifies a node within a Document's arena. The zero value is
// never a valid id; the document's root is always id 1.
type NodeID uint32

// NodeKind distinguishes the two node payloads the arena stores.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
)

// Node is a single arena entry. Exactly one of the Element/Text fields is
// meaningful, selected by Kind.
type Node struct {
	ID     NodeID
	Kind   NodeKind
	Parent NodeID // 0 for the root

	// Element payload.
	Tag        string
	Attributes map[string]string

	// Text payload.
	Text string

	children []NodeID
}

// IsElement reports whether n holds an Element payload.
func (n *Node) IsElement() bool { return n.Kind == KindElement }

// IsText reports whether n holds a Text payload.
func (n *Node) IsText() bool { return n.Kind == KindText }

// Children returns the node's children in insertion order. The returned
// slice must not be mutated by the caller.
func (n *Node) Children() []NodeID { return n.children }

// Attr returns an attribute value, or "" with ok=false if absent.
func (n *Node) Attr(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	v, ok := n.Attributes[name]
	return v, ok
}

// Document is the arena root. It owns every node reachable from the page.
type Document struct {
	nodes   []Node          // index 0 is unused; NodeID(0) is invalid
	byTag   map[string][]NodeID
	rootID  NodeID
}

// NewDocument creates an empty document with a synthetic root node (tag
// "#document") at id 1.
func NewDocument() *Document {
	d := &Document{
		nodes: make([]Node, 1, 64), // reserve slot 0 as invalid sentinel
		byTag: make(map[string][]NodeID),
	}
	root := d.allocElement(0, "#document", nil)
	d.rootID = root
	return d
}

// Root returns the id of the document's root node.
func (d *Document) Root() NodeID { return d.rootID }

// Node looks up a node by id. Panics on an unknown id: callers only ever
// hold ids minted by this document, so an unknown id is a programmer error,
// not recoverable input.
func (d *Document) Node(id NodeID) *Node {
	if int(id) <= 0 || int(id) >= len(d.nodes) {
		panic(fmt.Sprintf("dom: unknown node id %d", id))
	}
	return &d.nodes[id]
}

// Len returns the number of nodes in the arena, including the root.
func (d *Document) Len() int { return len(d.nodes) - 1 }

// ByTag returns every element node with the given tag name, in document
// (insertion) order.
func (d *Document) ByTag(tag string) []NodeID {
	return d.byTag[tag]
}

// CreateElement allocates a new element node as a child of parent and
// returns its id. attrs may be nil.
func (d *Document) CreateElement(parent NodeID, tag string, attrs map[string]string) NodeID {
	id := d.allocElement(parent, tag, attrs)
	d.attach(parent, id)
	return id
}

// CreateText allocates a new text node as a child of parent and returns its
// id.
func (d *Document) CreateText(parent NodeID, text string) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{ID: id, Kind: KindText, Parent: parent, Text: text})
	d.attach(parent, id)
	return id
}

// AppendText appends to an existing text node's content in place, used by
// the tree builder to merge adjacent character tokens the way browsers do.
func (d *Document) AppendText(id NodeID, more string) {
	d.Node(id).Text += more
}

func (d *Document) allocElement(parent NodeID, tag string, attrs map[string]string) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{
		ID:         id,
		Kind:       KindElement,
		Parent:     parent,
		Tag:        tag,
		Attributes: attrs,
	})
	if tag != "" {
		d.byTag[tag] = append(d.byTag[tag], id)
	}
	return id
}

func (d *Document) attach(parent NodeID, child NodeID) {
	if parent == 0 {
		return
	}
	p := d.Node(parent)
	p.children = append(p.children, child)
}

// TextContent concatenates the text of id and all its descendants, depth
// first, matching Node.textContent in the DOM.
func (d *Document) TextContent(id NodeID) string {
	var out []byte
	var walk func(NodeID)
	walk = func(cur NodeID) {
		n := d.Node(cur)
		if n.IsText() {
			out = append(out, n.Text...)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(id)
	return string(out)
}
