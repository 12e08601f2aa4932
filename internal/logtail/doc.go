// Package logtail reads and parses the tail of citadel's log file for the
// activity overlay.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines so only the last lines are kept in
// memory, regardless of file size. Lines come back in chronological order.
// A missing file returns nil, nil: the log simply has not been written yet.
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// # Parsing
//
// citadel logs through slog's text handler, which writes one record per line
// as space-separated key=value pairs with quoted values where needed:
//
//	time=2026-01-02T15:04:05.000Z level=INFO msg="characters loaded" count=20
//
// ParseLine splits such a line into time, level, message and the remaining
// attributes. Lines in any other format are kept verbatim as the message so
// the overlay can still show them.
package logtail
