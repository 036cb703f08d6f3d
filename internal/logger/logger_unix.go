//go:build darwin || linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

// GetTerminalInfo probes the file descriptor with the window-size ioctl.
// Only a real terminal answers it, so one call yields both the TTY check and
// the dimensions.
func GetTerminalInfo(file *os.File) TerminalInfo {
	window, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return TerminalInfo{}
	}

	return TerminalInfo{
		IsTTY:           true,
		UseColorEscapes: !hasNoColorEnvironmentVariable(),
		Width:           int(window.Col),
		Height:          int(window.Row),
	}
}
