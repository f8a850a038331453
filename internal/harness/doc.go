// Package harness replays scripted user sessions against a unified table.
//
// A script is a YAML document listing user inputs (year changes, country and
// category selections, play/pause toggles and timer ticks) followed by
// assertions on the final state:
//
//	name: playback
//	steps:
//	  - select_country: Japan
//	  - toggle: true
//	  - tick: 2
//	assertions:
//	  - type: year
//	    year: 1992
//
// Scripts run on the calling goroutine with a manual scheduler, so timer
// ticks happen only where a tick step says so. Every step appends one entry
// to a trace, which AssertGolden compares against testdata/golden.
package harness
