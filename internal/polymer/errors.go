package polymer

import (
	"errors"
	"fmt"
)

// ErrFormat matches every *SequenceFormatError via errors.Is.
var ErrFormat = errors.New("sequence format error")

// SequenceFormatError reports a sequence that cannot yield the requested
// facet: a foreign symbol, an annotation that does not partition the gene,
// or a missing start or stop codon.
type SequenceFormatError struct {
	Op     string // operation that failed, e.g. "translate"
	Pos    int    // offending symbol offset, -1 if not positional
	Reason string
}

func (e *SequenceFormatError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (position %d)", e.Op, e.Reason, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) true for any format error.
func (e *SequenceFormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatError(op string, format string, args ...any) *SequenceFormatError {
	return &SequenceFormatError{Op: op, Pos: -1, Reason: fmt.Sprintf(format, args...)}
}

func symbolError(op string, alpha Alphabet, s string, pos int) *SequenceFormatError {
	return &SequenceFormatError{
		Op:     op,
		Pos:    pos,
		Reason: fmt.Sprintf("symbol %q is not in the %s alphabet", s[pos], alpha),
	}
}
