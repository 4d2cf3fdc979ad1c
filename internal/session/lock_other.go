//go:build !unix

package session

// fileLock is a no-op where flock is unavailable; promotion then relies on
// rename alone.
type fileLock struct{}

func newFileLock(string) *fileLock { return &fileLock{} }

func (l *fileLock) Lock() error   { return nil }
func (l *fileLock) Unlock() error { return nil }
