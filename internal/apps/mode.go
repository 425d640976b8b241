// Package apps models the applications bound to the adaptive keyboard row:
// entries, the modes they belong to, their persistence and the ordered
// collection the user interface edits.
package apps

import (
	"fmt"
	"strings"
)

// Mode is one of the operating contexts the keyboard row switches between.
type Mode int

const (
	ModeFunction Mode = iota
	ModeHome
	ModeWebBrowser
	ModeWebConference
)

var modeNames = [...]string{"Function", "Home", "WebBrowser", "WebConference"}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeFunction, ModeHome, ModeWebBrowser, ModeWebConference}
}

// String returns the storage segment name of the mode.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return modeNames[m]
}

// Valid reports whether m is a declared mode.
func (m Mode) Valid() bool {
	return m >= ModeFunction && m <= ModeWebConference
}

// Next cycles to the following mode, wrapping after the last one.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// ParseMode matches a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if strings.EqualFold(m.String(), strings.TrimSpace(s)) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown mode %q (want one of %s)", s, strings.Join(modeNames[:], ", "))
}
