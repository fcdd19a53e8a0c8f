// Package docsite provides the page tooling of a documentation website.
// It builds per-page tables of contents from rendered headings, talks to
// the hosted search service, and drives site builds, previews and audits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, goldmark/, chi/).
package docsite
