package schema

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml".
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return "", false
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseFormat(ext)
}

// Encode serializes doc.
func Encode(doc *Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, "encoding yaml document")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding yaml document")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Newf("unsupported document format %q", f)
}

// Decode parses data. Parse failures match domain.ErrMalformedInput.
func Decode(data []byte, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf("unsupported document format %q", f)
	}
	if err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedInput, "decoding %s document: %v", f, err)
	}
	return &doc, nil
}
