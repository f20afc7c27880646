package diagram

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archdeck/pkg/errors"
)

// Format identifies the encoding of a diagram spec.
type Format string

// Supported spec formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DetectFormat picks a format from a file extension.
// Unknown extensions are treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes a diagram spec. Decode failures carry [errors.ErrCodeInvalidSpec].
func Parse(data []byte, format Format) (*Spec, error) {
	var spec Spec
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode json spec")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode toml spec")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported spec format %q", format)
	}
	return &spec, nil
}

// ParseFile is Parse with the format detected from path.
func ParseFile(path string, data []byte) (*Spec, error) {
	return Parse(data, DetectFormat(path))
}
