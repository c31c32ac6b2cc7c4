// Package testutil holds fixtures shared by the simulator's tests.
package testutil

import (
	"io"
	"log/slog"
	"time"
)

// Today is the reference instant for deterministic age and due-date math.
var Today = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

// FixedClock returns Today.
func FixedClock() time.Time { return Today }

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
