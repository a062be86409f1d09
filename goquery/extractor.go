// Package goquery provides a goquery-based implementation of
// sitegraph.LinkExtractor.
package goquery

import (
	"iter"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitegraph"
)

// DefaultSelector matches every anchor that carries an href.
const DefaultSelector = "a[href]"

// Ensure Extractor implements sitegraph.LinkExtractor.
var _ sitegraph.LinkExtractor = (*Extractor)(nil)

// Extractor parses HTML pages and yields their same-domain links.
// It is safe for concurrent use.
type Extractor struct {
	selector string
	filter   *sitegraph.URLFilter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelector restricts extraction to anchors matching a CSS selector,
// e.g. "main a[href]" to ignore navigation chrome.
func WithSelector(selector string) Option {
	return func(e *Extractor) {
		e.selector = selector
	}
}

// WithFilter applies include/exclude patterns to resolved links.
func WithFilter(filter *sitegraph.URLFilter) Option {
	return func(e *Extractor) {
		e.filter = filter
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{selector: DefaultSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses body and returns the page title and a lazy sequence of links.
//
// Each href is resolved against baseURL and its fragment is dropped. Links
// with non-HTTP schemes, hosts outside domain, or rejected by the filter are
// skipped. Each URL is yielded once per page, in document order.
func (e *Extractor) Extract(body, baseURL, domain string) (*sitegraph.Extraction, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitegraph.Errorf(sitegraph.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, sitegraph.Errorf(sitegraph.EINVALID, "failed to parse HTML: %v", err)
	}

	// <base href> overrides the document URL for relative links.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	return &sitegraph.Extraction{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: e.links(doc, base, domain),
	}, nil
}

func (e *Extractor) links(doc *goquery.Document, base *url.URL, domain string) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		doc.Find(e.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, exists := sel.Attr("href")
			if !exists {
				return true
			}
			href = strings.TrimSpace(href)
			if href == "" || isNonHTTPLink(href) {
				return true
			}

			resolved, ok := resolveURL(base, href)
			if !ok {
				return true
			}
			if !sitegraph.HostInDomain(resolved.Hostname(), domain) {
				return true
			}

			link := resolved.String()
			if _, ok := seen[link]; ok {
				return true
			}
			if !e.filter.Match(link) {
				return true
			}
			seen[link] = struct{}{}
			return yield(link)
		})
	}
}

// resolveURL resolves href against base and strips the fragment.
// Returns false if href cannot be parsed or does not resolve to an
// http(s) URL.
func resolveURL(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	return resolved, true
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
