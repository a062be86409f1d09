// Package sitegraph maps the reachable pages of a single web domain.
// Starting from a seed URL it follows same-domain links up to a bounded
// depth and produces a page-to-outbound-link graph with per-page metadata.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, etree/).
package sitegraph
