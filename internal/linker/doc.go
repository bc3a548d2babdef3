// Package linker implements the content auto-linking matcher: it detects
// artist and show mentions in article text, classifies which event-service
// categories the text implies, and ranks service pages to recommend. All
// matching runs over normalized text against an immutable search index
// snapshot; the matcher performs no I/O and retains no state across calls.
package linker
