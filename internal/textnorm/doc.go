// Package textnorm provides the canonical text normalization used by all
// content matching: lowercase, diacritic-stripped, non-alphanumeric runs
// collapsed to single spaces.
package textnorm
