package sitegraph

import "iter"

// Extraction holds what was found on a single page.
type Extraction struct {
	// Title is the page title, or empty if the page has none.
	Title string

	// Links yields the page's same-domain, normalized outbound links in
	// document order. Duplicates within the page are already suppressed.
	// The sequence is finite and meant to be consumed once.
	Links iter.Seq[string]
}

// LinkExtractor extracts the title and outbound links from a page body.
type LinkExtractor interface {
	// Extract parses body and resolves links against baseURL.
	// Only links whose host equals domain or is a subdomain of it are yielded.
	Extract(body, baseURL, domain string) (*Extraction, error)
}
