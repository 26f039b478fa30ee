// Package config loads reelstack settings from a TOML file.
//
// Lookup order for the file: an explicit path, then $REELSTACK_CONFIG, then
// $XDG_CONFIG_HOME/reelstack/config.toml (~/.config/reelstack/config.toml),
// then ./reelstack.toml. A missing file is not an error; defaults apply.
// Path values accept a leading ~ and are made absolute.
package config
