// Package images stores vacation images on local disk.
// A vacation's ImageName refers to the file "<ImageName>.jpg" in the store's directory.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// Ext is the extension every stored image is saved under, whatever its format.
const Ext = ".jpg"

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Store reads and writes images in a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("images.NewStore: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory images are stored in.
func (s *Store) Dir() string { return s.dir }

// Save writes the image read from r under name. The content must be an image
// of some kind; anything else is rejected with domain.ErrValidation.
// An existing image with the same name is replaced atomically.
func (s *Store) Save(name string, r io.Reader) error {
	path, err := s.path(name)
	if err != nil {
		return fmt.Errorf("images.Store.Save: %w", err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return fmt.Errorf("images.Store.Save: %w: image is empty", domain.ErrValidation)
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("images.Store.Save: %w: unsupported content type %s", domain.ErrValidation, mt.String())
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := io.Copy(tmp, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		tmp.Close()
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("images.Store.Save: %w", err)
	}
	return nil
}

// Open returns the stored image and its detected content type.
// The caller must close the returned file.
// Returns domain.ErrNotFound if no image with that name exists.
func (s *Store) Open(name string) (*os.File, string, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, "", fmt.Errorf("images.Store.Open: %w", err)
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("images.Store.Open: image %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("images.Store.Open: %w", err)
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("images.Store.Open: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("images.Store.Open: %w", err)
	}
	return f, mt.String(), nil
}

// Remove deletes the stored image.
// Returns domain.ErrNotFound if no image with that name exists.
func (s *Store) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return fmt.Errorf("images.Store.Remove: %w", err)
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("images.Store.Remove: image %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("images.Store.Remove: %w", err)
	}
	return nil
}

// path maps an image name to its file. Names that could escape the
// directory are rejected.
func (s *Store) path(name string) (string, error) {
	if !domain.ValidImageName(name) {
		return "", fmt.Errorf("%w: invalid image name %q", domain.ErrValidation, name)
	}
	return filepath.Join(s.dir, name+Ext), nil
}
