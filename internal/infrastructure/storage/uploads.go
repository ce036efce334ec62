package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload destinations, relative to the base directory.
const (
	ProfilePics = "profile_pics"
	BlogImages  = "blog_images"
)

var (
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllow = errors.New("file type is not allowed")
	ErrBadFilename      = errors.New("filename is empty after sanitizing")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Uploads writes user-supplied files under a base directory. Stored
// references are relative paths like "profile_pics/photo.png".
type Uploads struct {
	baseDir  string
	maxBytes int64
}

func NewUploads(baseDir string, maxBytes int64) *Uploads {
	return &Uploads{baseDir: baseDir, maxBytes: maxBytes}
}

// Init creates the base directory and every upload subdirectory.
func (u *Uploads) Init() error {
	for _, dir := range []string{u.baseDir, filepath.Join(u.baseDir, ProfilePics), filepath.Join(u.baseDir, BlogImages)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

func (u *Uploads) MaxBytes() int64 {
	return u.maxBytes
}

// Save validates and persists one uploaded file, returning the relative
// path to store on the owning row. An existing file is never overwritten;
// colliding names get a random suffix.
func (u *Uploads) Save(fh *multipart.FileHeader, subdir string) (string, error) {
	if fh.Size > u.maxBytes {
		return "", ErrFileTooLarge
	}

	name := SanitizeFilename(fh.Filename)
	if name == "" {
		return "", ErrBadFilename
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", ErrFileTypeNotAllow
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, name, err := u.createExclusive(subdir, name, ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, u.maxBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	if written > u.maxBytes {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}

	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

// createExclusive opens the target with O_EXCL, uniquifying the name on
// collision so one upload can never clobber another's content.
func (u *Uploads) createExclusive(subdir, name, ext string) (*os.File, string, error) {
	path := filepath.Join(u.baseDir, subdir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, name, nil
	}
	if !os.IsExist(err) {
		return nil, "", err
	}

	stem := strings.TrimSuffix(name, ext)
	name = fmt.Sprintf("%s_%s%s", stem, uuid.New().String()[:8], ext)
	path = filepath.Join(u.baseDir, subdir, name)
	f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

// Remove deletes a previously saved file; used to roll back when the
// row insert that references it fails.
func (u *Uploads) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("refusing to remove %q: outside upload directory", relPath)
	}
	err := os.Remove(filepath.Join(u.baseDir, clean))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// SanitizeFilename strips any path component and replaces hostile runes,
// keeping only letters, digits, dot, dash and underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if strings.Trim(cleaned, "._-") == "" {
		return ""
	}
	return cleaned
}
