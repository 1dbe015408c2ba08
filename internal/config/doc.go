// Package config handles loading and saving Easel's configuration file.
//
// # Overview
//
// Easel keeps a small TOML file describing which gridd server to talk to and
// how to identify this installation. The file lives at
// ~/.config/easel/config.toml by default and is created on first run.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/easel/config.toml (default)
//  3. If the config file doesn't exist, write one with defaults and a
//     freshly generated client_id
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/easel/config.toml
//   - Server: 127.0.0.1:7621
//   - Buyer: anonymous
//   - Poll interval: 8 seconds
//   - Log directory: ~/.local/share/easel/logs
//   - Client log: <log_dir>/easel.log
//
// # Client Identity
//
// Each installation carries a UUID client_id. Load generates one when the
// field is missing or unparsable and writes it back immediately, so the
// identity is stable across runs without the user ever touching it.
//
// # TOML Format
//
// Example config.toml:
//
//	server = "127.0.0.1:7621"
//	buyer = "ada"
//	client_id = "5f0c2b6e-..."
//	poll_seconds = 8
//	discover = false
//	log_dir = "~/.local/share/easel/logs"
//
// All fields are optional. Tilde expansion is performed automatically for
// the config path and log_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers first-run creation), and TOML parsing
// errors. A missing config file is NOT an error; Easel works out of the box.
package config
