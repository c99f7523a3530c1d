// Package config loads the deskshell configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/deskshell/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Preferences directory: ~/.config/deskshell
//   - Backend API endpoint: 127.0.0.1:7488 (used by `deskshell serve` and --remote)
//   - Log file: ~/.local/share/deskshell/deskshell.log
//   - Log level: info
//   - Language: en (selects localized help pages)
//   - Theme: Nightfox
//   - Readiness poll interval: 1.5s
//
// # TOML Format
//
//	prefs_dir = "~/.config/deskshell"
//	api_bind = "127.0.0.1:7488"
//	log_path = "logs/deskshell.log"
//	log_level = "debug"
//	language = "en"
//	theme = "Slate"
//	dev = true
//	poll_interval = "1500ms"
//
// Every field is optional. Tilde paths are expanded to the home directory;
// relative paths are resolved against the directory holding the config file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and unparseable poll intervals. A missing
// config file is not an error.
package config
