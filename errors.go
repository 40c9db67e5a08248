package delimhuff

import "errors"

// PrecondError indicates a programming error the core treats as fatal
// (spec.md §7): an input counts vector not of size DictSize, or a row
// engine field-count mismatch. Callers are expected to let this panic
// propagate rather than recover from it — it signals a bug in the caller,
// not a malformed input.
type PrecondError struct {
	Msg string
}

func (e PrecondError) Error() string { return "delimhuff: precondition violated: " + e.Msg }

// ErrTruncatedStream is returned by the checked decode variants when
// bitOffset would advance past bitLast without reaching a delimiter leaf.
// spec.md §7 leaves this case undefined for the unchecked decoder and
// explicitly permits a hardened, checked variant.
var ErrTruncatedStream = errors.New("delimhuff: truncated stream before reaching a delimiter")

// ErrBadTreeVersion names a persisted tree written by an incompatible format
// version. The persisted tree format carries no version field, and no
// function in this package returns this error.
var ErrBadTreeVersion = errors.New("delimhuff: unsupported persisted tree version")
