package file

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
)

// Store implements ports.TransducerStore using the local filesystem.
// It stores one document per transducer in a configured directory.
type Store struct {
	BasePath string
	Format   schema.Format
}

// Option configures the file store.
type Option func(*Store)

// WithFormat selects the document encoding. Defaults to JSON.
func WithFormat(f schema.Format) Option {
	return func(s *Store) {
		s.Format = f
	}
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".fsnt/transducers".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = filepath.Join(".fsnt", "transducers")
	}
	s := &Store{BasePath: basePath, Format: schema.FormatJSON}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ext() string {
	return "." + string(s.Format)
}

func (s *Store) path(name string) (string, error) {
	if name == "" {
		return "", errors.New("transducer name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", errors.Newf("invalid transducer name %q", name)
	}
	return filepath.Join(s.BasePath, name+s.ext()), nil
}

// Save persists the transducer atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, t *fst.Transducer) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return errors.Wrap(err, "failed to ensure store directory")
	}

	data, err := schema.Encode(schema.FromTransducer(t), s.Format)
	if err != nil {
		return errors.Wrap(err, "failed to encode transducer")
	}

	// Same directory keeps the rename on one filesystem. The prefix keeps leftovers out of List.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+name+"-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return errors.Wrap(err, "failed to write to temp file")
	}
	if err := tmpFile.Sync(); err != nil {
		return errors.Wrap(err, "failed to fsync temp file")
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}

	// Windows os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return errors.Wrap(err, "failed to remove existing file for overwrite")
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return errors.Wrap(err, "failed to rename temp file")
	}
	return nil
}

// Load reads and decodes the stored document.
func (s *Store) Load(ctx context.Context, name string) (*fst.Transducer, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(domain.ErrTransducerNotFound, "%s", name)
		}
		return nil, errors.Wrap(err, "failed to read transducer file")
	}

	doc, err := schema.Decode(data, s.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", filePath)
	}
	return doc.Transducer()
}

// Delete removes the transducer file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete transducer file")
	}
	return nil
}

// List returns the names of all stored transducers.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrap(err, "failed to list transducers")
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != s.ext() {
			continue
		}
		names = append(names, strings.TrimSuffix(name, s.ext()))
	}
	slices.Sort(names)
	return names, nil
}
