// Package logtail reads the end of Easel's own log file for display in the
// TUI.
//
// # Overview
//
// Easel redirects the standard library logger to a file so background noise
// never corrupts the terminal UI. This package implements the tail-like read
// the log overlay uses to show that file's most recent lines.
//
// # Ring Buffer Algorithm
//
// Tail scans the file once through a circular buffer of maxLines entries, so
// memory stays O(maxLines) regardless of how large the file has grown:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line, store it at the current index and advance, wrapping
//	3. On EOF, return the buffer contents starting from the oldest entry
//
// # Error Handling
//
// Tail returns nil, nil for non-existent files (nothing has been logged
// yet). Other errors (permission denied, I/O errors) are returned wrapped.
//
// # Design Rationale
//
// This package is intentionally simple and focused: no streaming or file
// watching, no rotation handling, no filtering. It reads, the UI displays.
package logtail
