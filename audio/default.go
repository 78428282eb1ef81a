package audio

import "sync/atomic"

var defaultManager atomic.Pointer[Manager]

// SetDefault installs m as the process-wide manager and returns the previous one.
func SetDefault(m *Manager) *Manager {
	return defaultManager.Swap(m)
}

// Default returns the process-wide manager, or nil when none is installed.
func Default() *Manager {
	return defaultManager.Load()
}
