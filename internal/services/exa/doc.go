// Package exa is a client for the Exa semantic search API: web search with
// document text for generation context, and single-URL content extraction
// for press imports.
package exa
