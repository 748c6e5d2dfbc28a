package host

import "golang.org/x/sys/unix"

// RootChecker abstracts privilege checking for testability.
type RootChecker interface {
	// IsRoot returns true if the current process has root privileges.
	IsRoot() bool
}

type realRootChecker struct{}

// NewRootChecker returns a RootChecker that checks the effective UID.
func NewRootChecker() RootChecker {
	return realRootChecker{}
}

func (realRootChecker) IsRoot() bool {
	return unix.Geteuid() == 0
}

// SyncFilesystems flushes dirty page cache to disk. Callers use it before a reboot.
func SyncFilesystems() {
	unix.Sync()
}
