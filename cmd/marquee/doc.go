// Package main hosts the Marquee CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the editorial API server, one-shot
// article generation, search index builds and inspection, notification
// checks, and configuration scaffolding. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
