package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxPhotoSize = 10 * 1024 * 1024

var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoStore keeps uploaded contest photos on the local filesystem under
// opaque object keys.
type PhotoStore struct {
	root string
}

func NewPhotoStore(root string) (*PhotoStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create photo storage directory: %w", err)
	}
	return &PhotoStore{root: root}, nil
}

// ValidatePhoto checks size and sniffs the actual content type. It returns
// the canonical extension for the detected type.
func ValidatePhoto(file *multipart.FileHeader) (string, error) {
	if file.Size > maxPhotoSize {
		return "", fmt.Errorf("photo is too large, maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open file for validation")
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := io.ReadFull(src, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("could not read file for validation")
	}
	buffer = buffer[:n]

	contentType := http.DetectContentType(buffer)
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("invalid file format, only JPG, PNG, and WEBP are allowed")
	}

	providedExt := strings.ToLower(filepath.Ext(file.Filename))
	if providedExt != ext && !(ext == ".jpg" && providedExt == ".jpeg") {
		return "", fmt.Errorf("file extension %s does not match the actual content type %s", providedExt, contentType)
	}

	return ext, nil
}

// NewObjectKey mints an opaque filename for an upload.
func NewObjectKey(ext string) string {
	return uuid.NewString() + ext
}

// Path resolves an object key to its on-disk location. Keys containing path
// separators are rejected to keep lookups inside the store root.
func (s *PhotoStore) Path(objectKey string) (string, error) {
	if objectKey == "" || filepath.Base(objectKey) != objectKey {
		return "", fmt.Errorf("invalid object key")
	}
	return filepath.Join(s.root, objectKey), nil
}

func (s *PhotoStore) Remove(objectKey string) error {
	path, err := s.Path(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
