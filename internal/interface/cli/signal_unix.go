//go:build !windows
// +build !windows

package cli

import (
	"os"
	"syscall"
)

// getSignalsToHandle returns the list of signals to handle on Unix systems
func getSignalsToHandle() []os.Signal {
	return []os.Signal{
		os.Interrupt,    // Ctrl+C (SIGINT)
		syscall.SIGTERM, // kill command
		syscall.SIGTSTP, // Ctrl+Z
	}
}

// isSIGTSTP checks if the signal is SIGTSTP (Ctrl+Z)
func isSIGTSTP(sig os.Signal) bool {
	return sig == syscall.SIGTSTP
}

// suspendSelf stops the process with SIGSTOP, which cannot be caught.
// Execution continues here once the process receives SIGCONT.
func suspendSelf() error {
	return syscall.Kill(syscall.Getpid(), syscall.SIGSTOP)
}
