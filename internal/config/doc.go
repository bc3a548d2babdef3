// Package config loads, normalizes, and validates Marquee's TOML
// configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/marquee/config.toml, then ./marquee.toml. Defaults are applied
// before the file is decoded so a partial config remains usable, and secret
// values fall back to environment variables when the file leaves them empty.
package config
