// Package etree provides a GraphML encoder for site graphs built on
// github.com/beevik/etree.
//
// The output is a directed graph with one node per URL and one edge per
// outbound link. Page nodes carry "label" (the URL) and "title" data;
// link targets that were never fetched appear as bare nodes so that every
// edge endpoint is declared.
package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitegraph"
)

// GraphMLFile is the conventional name of the GraphML export.
const GraphMLFile = "site_structure.graphml"

const (
	graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"
	xsiNamespace     = "http://www.w3.org/2001/XMLSchema-instance"
	graphMLSchema    = "http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd"

	labelKey = "d0"
	titleKey = "d1"
)

// Ensure Encoder implements sitegraph.GraphEncoder at compile time.
var _ sitegraph.GraphEncoder = (*Encoder)(nil)

// Encoder writes graphs as GraphML.
type Encoder struct {
	// Indent is the number of spaces per nesting level. Zero writes
	// compact output.
	Indent int
}

// NewEncoder returns an Encoder with two-space indentation.
func NewEncoder() *Encoder {
	return &Encoder{Indent: 2}
}

// EncodeGraph writes graph to w as a GraphML document.
func (e *Encoder) EncodeGraph(w io.Writer, graph *sitegraph.Graph) error {
	doc := e.Document(graph)
	_, err := doc.WriteTo(w)
	return err
}

// Document builds the GraphML document for graph.
func (e *Encoder) Document(graph *sitegraph.Graph) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("graphml")
	root.CreateAttr("xmlns", graphMLNamespace)
	root.CreateAttr("xmlns:xsi", xsiNamespace)
	root.CreateAttr("xsi:schemaLocation", graphMLSchema)

	addKey(root, labelKey, "label")
	addKey(root, titleKey, "title")

	g := root.CreateElement("graph")
	g.CreateAttr("edgedefault", "directed")

	// Nodes are declared in first-seen order: each page, then any of its
	// link targets not yet declared. Page data is attached even when the
	// page was first declared as a link target.
	nodes := make(map[string]*etree.Element)
	node := func(url string) *etree.Element {
		if n, ok := nodes[url]; ok {
			return n
		}
		n := g.CreateElement("node")
		n.CreateAttr("id", url)
		nodes[url] = n
		return n
	}

	var edges [][2]string
	for _, p := range graph.Pages() {
		n := node(p.URL)
		addData(n, labelKey, p.URL)
		addData(n, titleKey, p.Title)
		for _, link := range p.Links {
			node(link)
			edges = append(edges, [2]string{p.URL, link})
		}
	}

	for _, edge := range edges {
		el := g.CreateElement("edge")
		el.CreateAttr("source", edge[0])
		el.CreateAttr("target", edge[1])
	}

	if e.Indent > 0 {
		doc.Indent(e.Indent)
	}
	return doc
}

func addKey(root *etree.Element, id, name string) {
	key := root.CreateElement("key")
	key.CreateAttr("id", id)
	key.CreateAttr("for", "node")
	key.CreateAttr("attr.name", name)
	key.CreateAttr("attr.type", "string")
}

func addData(n *etree.Element, key, value string) {
	d := n.CreateElement("data")
	d.CreateAttr("key", key)
	d.SetText(value)
}
