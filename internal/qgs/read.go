// Package qgs reads and writes QGIS project files: plain XML .qgs documents
// and gzip-compressed .qgz containers.
package qgs

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvrdal/qproj/internal/model"
	"github.com/mvrdal/qproj/internal/xmltree"
)

// qgisNamespace is the default-namespace declaration some documents carry.
// It is stripped before parsing so elements can be addressed by bare tag
// name; the serialized output never re-attaches it.
const qgisNamespace = `xmlns="http://www.qgis.org/dtd"`

// Load reads a project file and returns its typed model.
func Load(path string) (*model.ProjectDocument, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	encoding := declaredEncoding(raw)
	raw = bytes.ReplaceAll(raw, []byte(qgisNamespace), nil)

	root, err := xmltree.Parse(bytes.NewReader(raw))
	if err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, fmt.Errorf("%w: %s: line %d: %s", ErrParse, path, syn.Line, syn.Msg)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	doc, err := model.Decode(root, encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return doc, nil
}

func readRaw(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qgs":
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	case ".qgz":
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// declaredEncoding extracts the encoding label from the XML declaration,
// defaulting to UTF-8.
func declaredEncoding(raw []byte) string {
	head := raw
	if len(head) > 200 {
		head = head[:200]
	}
	s := string(head)
	start := strings.Index(s, "<?xml")
	if start < 0 {
		return "UTF-8"
	}
	end := strings.Index(s[start:], "?>")
	if end < 0 {
		return "UTF-8"
	}
	decl := s[start : start+end]
	idx := strings.Index(decl, "encoding=")
	if idx < 0 {
		return "UTF-8"
	}
	rest := decl[idx+len("encoding="):]
	if len(rest) < 2 {
		return "UTF-8"
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "UTF-8"
	}
	if close := strings.IndexByte(rest[1:], quote); close > 0 {
		return rest[1 : 1+close]
	}
	return "UTF-8"
}
