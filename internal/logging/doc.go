// Package logging assembles the structured slog loggers used across Marquee.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so HTTP handlers automatically tag
// log lines with request correlation IDs. Prefer these constructors over
// hand-rolled slog setup so every component emits data with the same shape.
package logging
