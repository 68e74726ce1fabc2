// Package xml provides pure Go XML parsing and XPath queries for the corpus
// documents. It wraps the xmlquery library behind a small Document/Node API so
// callers never depend on the library types directly.
//
// TEI editions in the corpus declare the TEI namespace inconsistently across
// eras of the data, so the query helpers here favor namespace-agnostic
// expressions built with Path (local-name matching) over prefixed ones.
package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, attribute, etc.).
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	reader := bytes.NewReader(data)
	root, err := xmlquery.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Path builds a namespace-agnostic XPath step for the given element name,
// e.g. Path("pb") == `//*[local-name()='pb']`.
func Path(name string) string {
	return "//*[local-name()='" + name + "']"
}

// XPath executes an XPath query and returns matching nodes in document order.
func (d *Document) XPath(expr string) ([]*Node, error) {
	// Compile the expression to check for errors
	_, err := xpath.Compile(expr)
	if err != nil {
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
// or nil if nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	// Compile the expression to check for errors
	_, err := xpath.Compile(expr)
	if err != nil {
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

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	// Find the first element child
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// CollapsedText returns the node's text content with runs of whitespace
// collapsed to single spaces and the edges trimmed.
func (n *Node) CollapsedText() string {
	return CollapseSpace(n.Text())
}

// Attr returns the value of the attribute with the given local name.
// Prefixed attributes such as xml:id match by their local part ("id").
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// HasAttr reports whether the node carries an attribute with the given
// local name, even when its value is empty.
func (n *Node) HasAttr(name string) bool {
	if n == nil || n.node == nil {
		return false
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Local == name {
			return true
		}
	}
	return false
}

// XPath executes an XPath query relative to this node.
func (n *Node) XPath(expr string) ([]*Node, error) {
	if n == nil || n.node == nil {
		return nil, nil
	}
	_, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(n.node, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	result := make([]*Node, len(nodes))
	for i, m := range nodes {
		result[i] = &Node{node: m}
	}
	return result, nil
}

// CollapseSpace collapses all runs of Unicode whitespace in s to single
// spaces and trims leading and trailing whitespace.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
