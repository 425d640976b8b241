//go:build windows

package cmd

import (
	"github.com/Norgate-AV/akcfg/internal/logger"
	"github.com/Norgate-AV/akcfg/internal/store"
	"github.com/Norgate-AV/akcfg/internal/windows"
)

func nativePlatform(log logger.LoggerInterface) (*Platform, error) {
	api := windows.NewWindowsAPI(log)

	return &Platform{
		Store:           store.NewRegistry(),
		Directory:       api,
		Icons:           api,
		IsElevated:      windows.IsElevated,
		RelaunchAsAdmin: windows.RelaunchAsAdmin,
		ConsoleWindow:   windows.GetConsoleWindow,
		OnConsoleEvent: func(fn func(event string)) error {
			return windows.SetConsoleCtrlHandler(func(ctrlType uint32) bool {
				fn(windows.GetCtrlTypeName(ctrlType))
				return true
			})
		},
	}, nil
}
