package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the platform-wide upload limit.
const MaxFileSize = 5 * 1024 * 1024

var (
	ErrNoFile          = errors.New("no file selected")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// TooLargeError carries the offending size so callers can show a
// size-specific message.
type TooLargeError struct {
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file is %d bytes, the limit is %d bytes (5 MB)", e.Size, int64(MaxFileSize))
}

// Constraints describes what a call site accepts. The CV flow takes a
// PDF or an image; the profile-photo flow takes images only.
type Constraints struct {
	MaxSize   int64
	AcceptPDF bool
}

func CVConstraints() Constraints {
	return Constraints{MaxSize: MaxFileSize, AcceptPDF: true}
}

func PhotoConstraints() Constraints {
	return Constraints{MaxSize: MaxFileSize, AcceptPDF: false}
}

// Document is a selected file, validated but not yet uploaded.
type Document struct {
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// Open stats and sniffs the file at path and checks it against the
// constraints. All checks happen before any network call.
func Open(path string, c Constraints) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFile, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNoFile, path)
	}

	if info.Size() > c.MaxSize {
		return nil, &TooLargeError{Size: info.Size()}
	}

	contentType, err := sniffContentType(path)
	if err != nil {
		return nil, err
	}

	if !c.accepts(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	return &Document{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

func (c Constraints) accepts(contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}

	return c.AcceptPDF && contentType == "application/pdf"
}

// sniffContentType reads the first 512 bytes, falling back to the file
// extension when sniffing yields only a generic type.
func sniffContentType(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	detected := http.DetectContentType(buf[:n])
	if detected != "application/octet-stream" && detected != "text/plain; charset=utf-8" {
		return detected, nil
	}

	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt, nil
	}

	return detected, nil
}
