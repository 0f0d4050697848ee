package image

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/frahmantamala/budget-tracker/internal"
)

// Upload is the stored name and public path of a saved image.
type Upload struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Store keeps uploaded images as flat files in one directory.
type Store struct {
	dir        string
	maxSize    int64
	publicPath string
	logger     *slog.Logger
}

func NewStore(dir string, maxSize int64, publicPath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:        dir,
		maxSize:    maxSize,
		publicPath: strings.TrimRight(publicPath, "/"),
		logger:     logger,
	}, nil
}

func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save checks the declared and sniffed types and the size, then writes the
// file under a random name that keeps the original extension.
func (s *Store) Save(fh *multipart.FileHeader) (*Upload, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return nil, internal.ErrFileNotImage
	}
	if fh.Size > s.maxSize {
		return nil, internal.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, internal.ErrFileNotImage
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	if ext == "" {
		ext = mime.Extension()
	}
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	n, err := io.Copy(dst, io.LimitReader(f, s.maxSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write image file: %w", err)
	}
	// the header size can understate the body
	if n > s.maxSize {
		_ = os.Remove(path)
		return nil, internal.ErrFileTooLarge
	}

	s.logger.Info("image stored", "filename", name, "size", n, "content_type", mime.String())
	return &Upload{Filename: name, Path: s.publicPath + "/" + name}, nil
}

// Open returns the stored file. Names that are not a plain file name in the
// upload directory are reported as missing.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return nil, nil, internal.ErrImageNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, internal.ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, internal.ErrImageNotFound
	}
	return f, info, nil
}
