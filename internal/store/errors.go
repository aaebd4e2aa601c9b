package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrHistoryRewrite = errors.New("status history can only be extended")
	ErrUnknownKind    = errors.New("unknown attachment kind")
	ErrLocked         = errors.New("data directory is in use by another session")
)

// IOError ops. Failures of opLoad and opRewrite leave the table and the
// in-memory list out of step, so callers must not continue the session.
const (
	opLoad    = "load"
	opRewrite = "rewrite"
	opCopy    = "copy"
	opRemove  = "remove"
	opLock    = "lock"
	opInit    = "init"
)

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a malformed table. Line is 1-based and counts the header;
// zero means the CSV layer rejected the file before rows were decoded.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsFatal reports whether err means the persisted table can no longer be
// trusted to match memory.
func IsFatal(err error) bool {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ioErr.Op == opLoad || ioErr.Op == opRewrite
	}
	var pErr *ParseError
	return errors.As(err, &pErr)
}
