// Package xml provides XPath inspection of XML documents, used to query
// WN-LMF files and to check the structure of written documents.
//
// Documents are parsed with xmlquery, which uses Go's encoding/xml internally
// and so never fetches external entities.
package xml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML element.
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses XML from r and returns a Document.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil when nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Evaluate evaluates an XPath expression. Node-set results are returned as
// []*Node; numbers, strings and booleans as float64, string and bool.
func (d *Document) Evaluate(expr string) (any, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	switch v := e.Evaluate(xmlquery.CreateXPathNavigator(d.root)).(type) {
	case *xpath.NodeIterator:
		var nodes []*Node
		for v.MoveNext() {
			nav, ok := v.Current().(*xmlquery.NodeNavigator)
			if !ok {
				continue
			}
			nodes = append(nodes, &Node{node: nav.Current()})
		}
		return nodes, nil
	default:
		return v, nil
	}
}

// Count returns the number of nodes matching expr.
func (d *Document) Count(expr string) (int, error) {
	e, err := xpath.Compile("count(" + expr + ")")
	if err != nil {
		return 0, fmt.Errorf("invalid xpath: %w", err)
	}
	n, ok := e.Evaluate(xmlquery.CreateXPathNavigator(d.root)).(float64)
	if !ok {
		return 0, fmt.Errorf("xpath count did not return a number")
	}
	return int(n), nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// OutputXML returns the node serialized as XML, the node itself included.
func (n *Node) OutputXML() string {
	if n.node == nil {
		return ""
	}
	return n.node.OutputXML(true)
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n.node == nil {
		return nil
	}

	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Attributes returns all attributes of the node. Prefixed attributes are
// keyed as "prefix:name".
func (n *Node) Attributes() map[string]string {
	if n.node == nil {
		return nil
	}

	attrs := make(map[string]string)
	for _, attr := range n.node.Attr {
		key := attr.Name.Local
		if attr.Name.Space != "" {
			key = attr.Name.Space + ":" + key
		}
		attrs[key] = attr.Value
	}
	return attrs
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// AttrNames returns the attribute names of the node in document order.
func (n *Node) AttrNames() []string {
	if n.node == nil {
		return nil
	}
	names := make([]string, len(n.node.Attr))
	for i, attr := range n.node.Attr {
		names[i] = attr.Name.Local
		if attr.Name.Space != "" {
			names[i] = attr.Name.Space + ":" + attr.Name.Local
		}
	}
	return names
}
