package extract

import "errors"

var (
	// ErrNoMatch indicates the predicate matched zero layers across every
	// candidate document.
	ErrNoMatch = errors.New("no matching layers")

	// ErrReassembly indicates an internal consistency violation while
	// rebuilding a hierarchy. Fatal for the document, not for the run.
	ErrReassembly = errors.New("reassembly failed")
)
