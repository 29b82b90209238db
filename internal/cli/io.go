package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
)

// Stdio is the path that stands for stdin or stdout.
const Stdio = "-"

// documentFormat reports the schema format for path, or false for AT&T text.
func documentFormat(path string) (schema.Format, bool) {
	if path == Stdio {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".att", ".txt", ".fst", "":
		return "", false
	}
	return schema.FormatFromPath(path)
}

// ReadTransducer reads a transducer from path. JSON and YAML files are schema
// documents; everything else, including stdin, is AT&T text.
func ReadTransducer(path string, stdin io.Reader) (*fst.Transducer, error) {
	var data []byte
	var err error
	if path == Stdio {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return DecodeTransducer(data, path)
}

// DecodeTransducer decodes data in the format implied by path.
func DecodeTransducer(data []byte, path string) (*fst.Transducer, error) {
	if f, ok := documentFormat(path); ok {
		doc, err := schema.Decode(data, f)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		t, err := doc.Transducer()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		return t, nil
	}
	t, err := att.Read(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return t, nil
}

// WriteTransducer writes t to path in the format implied by its extension.
// The file is replaced only after encoding succeeded.
func WriteTransducer(path string, t *fst.Transducer, stdout io.Writer, opts att.Options) error {
	var buf bytes.Buffer
	if f, ok := documentFormat(path); ok {
		data, err := schema.Encode(schema.FromTransducer(t), f)
		if err != nil {
			return err
		}
		buf.Write(data)
	} else if err := att.Write(&buf, t, opts); err != nil {
		return err
	}

	if path == Stdio {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
