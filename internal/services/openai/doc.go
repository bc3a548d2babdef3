// Package openai wraps the chat completions API for the editorial pipeline:
// article generation, structured edit plans, stock photo queries, SEO meta
// descriptions, and content recommendations. Requests demand strict JSON and
// responses pass through a fence-tolerant decoder; transient HTTP failures
// retry with backoff honoring Retry-After.
package openai
