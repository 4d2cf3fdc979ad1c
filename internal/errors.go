package internal

import (
	"fmt"
	"strings"
)

// StorageError represents errors accessing session log files
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "promote", "lock"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CorruptLogError is returned when a stored log line is not valid JSON.
// Loading is all-or-nothing: one bad line fails the whole file.
type CorruptLogError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("corrupt log %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptLogError) Unwrap() error {
	return e.Err
}

// UnknownAgentError is returned when an agent name is not registered
type UnknownAgentError struct {
	Name      string
	Available []string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent: %s. Available: %s", e.Name, strings.Join(e.Available, ", "))
}

// UnknownModelError is returned when a model alias is not in an agent's catalog
type UnknownModelError struct {
	Agent     string
	Alias     string
	Available []string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("model '%s' not found for agent '%s'. Available: %s",
		e.Alias, e.Agent, strings.Join(e.Available, ", "))
}

// NoDefaultModelError means an agent's catalog has no default entry.
// Built-in catalogs always have one.
type NoDefaultModelError struct {
	Agent string
}

func (e *NoDefaultModelError) Error() string {
	return fmt.Sprintf("no default model for agent '%s'", e.Agent)
}

// SessionNotFoundError is returned when a session id has no log file
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ExecutableNotFoundError is returned when an agent's binary is not on PATH
type ExecutableNotFoundError struct {
	Command string
	Err     error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH", e.Command)
}

func (e *ExecutableNotFoundError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
