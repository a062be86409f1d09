package sitegraph

import (
	"bytes"
	"encoding/json"
)

// NoTitle is recorded for pages that have no title.
const NoTitle = "No title"

// Page is the record of a successfully fetched page.
// It is created once per URL and never mutated afterward.
type Page struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Links []string `json:"links"`

	// Depth is the remaining depth the page was dispatched with.
	Depth int `json:"depth"`
	// Status is the HTTP status of the successful fetch.
	Status int `json:"status"`
	// ContentHash is the xxhash of the fetched body in hex.
	ContentHash string `json:"contentHash"`
}

// Graph maps visited page URLs to their records.
// A Graph is an immutable snapshot: it is built once from the pages of a
// finished traversal and is safe for concurrent reads.
type Graph struct {
	pages []*Page
	index map[string]int
}

// NewGraph builds a Graph from pages in discovery order.
// If a URL occurs more than once, the first record wins.
func NewGraph(pages []*Page) *Graph {
	g := &Graph{
		pages: make([]*Page, 0, len(pages)),
		index: make(map[string]int, len(pages)),
	}
	for _, p := range pages {
		if _, ok := g.index[p.URL]; ok {
			continue
		}
		g.index[p.URL] = len(g.pages)
		g.pages = append(g.pages, p)
	}
	return g
}

// Len returns the number of pages in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.pages)
}

// Get returns the record for url, or nil if the graph has none.
func (g *Graph) Get(url string) *Page {
	if g == nil {
		return nil
	}
	i, ok := g.index[url]
	if !ok {
		return nil
	}
	return g.pages[i]
}

// Has reports whether the graph holds a record for url.
func (g *Graph) Has(url string) bool {
	return g.Get(url) != nil
}

// Pages returns the records in discovery order.
// The returned slice is a copy; the records themselves are shared.
func (g *Graph) Pages() []*Page {
	if g == nil {
		return nil
	}
	out := make([]*Page, len(g.pages))
	copy(out, g.pages)
	return out
}

// URLs returns the recorded URLs in discovery order.
func (g *Graph) URLs() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.pages))
	for i, p := range g.pages {
		out[i] = p.URL
	}
	return out
}

// pageJSON is the per-page shape of the site structure document.
type pageJSON struct {
	Title string   `json:"title"`
	Links []string `json:"links"`
}

// MarshalJSON encodes the graph as an object keyed by URL, in discovery order:
//
//	{"https://x.test/": {"title": "Home", "links": ["https://x.test/a"]}}
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range g.Pages() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.URL)
		if err != nil {
			return nil, err
		}
		links := p.Links
		if links == nil {
			links = []string{}
		}
		val, err := json.Marshal(pageJSON{Title: p.Title, Links: links})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a site structure document, keeping key order.
func (g *Graph) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "site structure must be a JSON object")
	}

	var pages []*Page
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		url, _ := tok.(string)

		var v pageJSON
		if err := dec.Decode(&v); err != nil {
			return err
		}
		pages = append(pages, &Page{URL: url, Title: v.Title, Links: v.Links})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = *NewGraph(pages)
	return nil
}
