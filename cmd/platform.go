package cmd

import (
	"errors"

	"github.com/Norgate-AV/akcfg/internal/interfaces"
	"github.com/Norgate-AV/akcfg/internal/store"
)

var errUnsupported = errors.New("akcfg configures the Windows registry and desktop; this platform is not supported")

// Platform bundles the operating-system bindings the commands run against.
type Platform struct {
	Store     store.Store
	Directory interfaces.WindowDirectory
	Icons     interfaces.IconLoader

	IsElevated      func() bool
	RelaunchAsAdmin func() error

	// ConsoleWindow returns the console hosting this process, 0 if none.
	ConsoleWindow func() uintptr

	// OnConsoleEvent routes console close, logoff and shutdown events to fn.
	OnConsoleEvent func(fn func(event string)) error
}

// newPlatform is replaced in tests.
var newPlatform = nativePlatform
