package iogv

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gilchrisn/communitygo/internal/cgerrors"
)

// Format identifies an input/output serialization.
type Format int

const (
	FormatUnknown Format = iota
	FormatDOT
	FormatJSON
	FormatCSV
)

// DetectFormat resolves a format by file extension first, falling back to
// content sniffing for stdin (no extension available), per spec.md §6's
// "format auto-detection" CLI behavior.
func DetectFormat(path string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return sniffFormat(data)
}

func sniffFormat(data []byte) (Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown, cgerrors.NewInputError("empty input: cannot auto-detect format")
	}
	switch trimmed[0] {
	case '{', '[':
		return FormatJSON, nil
	}
	if bytes.Contains(trimmed, []byte("graph")) || bytes.Contains(trimmed, []byte("digraph")) {
		return FormatDOT, nil
	}
	return FormatUnknown, cgerrors.NewInputError("cannot auto-detect input format")
}
