package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Photo is a request-scoped staging area for uploaded photo bytes. The bytes
// live in a local temp file between the multipart parse and the blob store
// upload. Release removes the file and is safe to call from every exit path;
// only the first call touches the filesystem.
type Photo struct {
	Path        string // staged file location on local disk
	Name        string // original filename from the upload
	ContentType string
	Size        int64

	once     sync.Once
	released bool
	relErr   error
}

// Stage copies r into a new file under dir and returns the staged photo.
// The directory is created if it does not exist yet.
func Stage(dir, name, contentType string, r io.Reader) (*Photo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(name)))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	return &Photo{
		Path:        path,
		Name:        filepath.Base(name),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open opens the staged file for reading. The caller closes it.
func (p *Photo) Open() (*os.File, error) {
	return os.Open(p.Path)
}

// Release removes the staged file. Exactly one call performs the removal;
// later calls return the first call's result.
func (p *Photo) Release() error {
	p.once.Do(func() {
		p.released = true
		if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
			p.relErr = err
		}
	})
	return p.relErr
}

// Released reports whether Release has been called.
func (p *Photo) Released() bool {
	return p.released
}
