// Package content holds the small text utilities shared across the pipeline:
// slug generation, HTML tag stripping, reading time estimation, and
// applying structured edit plans to article bodies.
package content
