// Package repodoc crawls code-hosting repository pages, extracts the text of
// every file reachable from a root directory page, and can hand the result
// to a language model to write a README for the repository.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/, gemini/).
package repodoc
