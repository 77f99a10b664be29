// Package storage writes uploaded banner images to the local
// filesystem. Files land under <dir>/banners with a generated name and
// the recorded path is servable through the static /uploads route.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrBannerType is returned for uploads that are not jpg/jpeg/png/webp.
	ErrBannerType = errors.New("unsupported banner type")
	// ErrBannerTooLarge is returned when the upload exceeds the size limit.
	ErrBannerTooLarge = errors.New("banner too large")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// BannerStore saves banners under Dir and enforces MaxBytes per file.
type BannerStore struct {
	Dir      string
	MaxBytes int64
}

func NewBannerStore(dir string, maxBytes int64) *BannerStore {
	return &BannerStore{Dir: dir, MaxBytes: maxBytes}
}

// Save validates and stores the uploaded file, returning the relative
// path recorded on the post (e.g. "banners/1714496523-a1b2c3d4.png").
func (s *BannerStore) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBannerType
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", ErrBannerTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := filepath.Join(s.Dir, "banners")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UTC().Unix(), hex.EncodeToString(buf), ext)

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return filepath.ToSlash(filepath.Join("banners", name)), nil
}

// Remove deletes a previously stored banner. Failures are logged and
// swallowed: a replaced banner leaving a stray file behind must not
// fail the request that replaced it.
func (s *BannerStore) Remove(relPath string) {
	if relPath == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(relPath))); err != nil && !os.IsNotExist(err) {
		log.Printf("storage: remove banner %s: %v", relPath, err)
	}
}
