//go:build windows

package windows

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the current process token is elevated.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// RelaunchAsAdmin starts this executable again through the UAC prompt with
// the same arguments.
func RelaunchAsAdmin() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	// Check if running via 'go run' (exe will be in temp dir)
	if strings.Contains(exe, "go-build") {
		return fmt.Errorf("cannot relaunch when run via 'go run', please build the executable first with: go build -o akcfg.exe")
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}

	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}

	var args *uint16
	if len(os.Args) > 1 {
		args, err = windows.UTF16PtrFromString(windows.ComposeCommandLine(os.Args[1:]))
		if err != nil {
			return err
		}
	}

	if err := windows.ShellExecute(0, verb, file, args, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("shell execute failed: %w", err)
	}

	return nil
}
