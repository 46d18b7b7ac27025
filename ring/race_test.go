//go:build race

package ring

// raceEnabled skips tests that exercise the deliberately unsynchronized
// panic write path, which the race detector would report.
const raceEnabled = true
