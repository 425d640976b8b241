//go:build !windows

package cmd

import "github.com/Norgate-AV/akcfg/internal/logger"

func nativePlatform(_ logger.LoggerInterface) (*Platform, error) {
	return nil, errUnsupported
}
