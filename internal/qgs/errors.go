package qgs

import "errors"

var (
	// ErrNotFound indicates the input project file does not exist.
	ErrNotFound = errors.New("project file not found")

	// ErrUnsupportedFormat indicates a file extension other than .qgs or .qgz.
	ErrUnsupportedFormat = errors.New("unsupported project file format")

	// ErrParse indicates the project document is not well-formed XML.
	ErrParse = errors.New("could not parse project file")

	// ErrWrite indicates the output document could not be persisted.
	ErrWrite = errors.New("could not write project file")
)
