// Package config loads Keypad settings.
//
// Settings come from three layers, highest priority first:
//
//	KEYPAD_* environment variables   (KEYPAD_EDITOR_TAB_SIZE=4)
//	$XDG_CONFIG_HOME/keypad/config.toml, or the --config path
//	built-in defaults
//
// Only the host process loads configuration. The renderer receives the
// subset it needs over the bridge.
//
// Example config.toml:
//
//	[editor]
//	theme = "monokai"
//	tab_size = 2
//	line_wrapping = false
//
//	[dialog]
//	backend = "auto"
//
//	[[files.filters]]
//	name = "Go"
//	extensions = ["go", "mod"]
package config
