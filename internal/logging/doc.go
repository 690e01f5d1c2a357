// Package logging wires log/slog handlers for the exporter CLI.
//
// New builds a console or JSON logger at the configured level; NewNop returns
// a silent logger for tests. The Attr aliases keep call sites terse.
package logging
