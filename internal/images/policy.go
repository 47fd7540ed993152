package images

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxSize matches the 2 MB upload limit of category images.
const DefaultMaxSize int64 = 2 << 20

var extensionTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// Policy restricts which uploads are accepted.
type Policy struct {
	MaxSize    int64
	Extensions []string
}

// DefaultPolicy accepts jpeg, png, jpg and gif files up to 2 MB.
func DefaultPolicy() Policy {
	return Policy{MaxSize: DefaultMaxSize, Extensions: []string{"jpeg", "png", "jpg", "gif"}}
}

// Validate checks the size, the extension and the sniffed content type of fh.
func (p Policy) Validate(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrUnsupportedType
	}

	maxSize := p.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if fh.Size > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, fh.Size, maxSize)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !p.allows(ext) {
		return fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
	}

	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return err
	}
	if !detected.Is(extensionTypes[ext]) {
		return fmt.Errorf("%w: content is %s", ErrUnsupportedType, detected.String())
	}
	return nil
}

func (p Policy) allows(ext string) bool {
	if _, known := extensionTypes[ext]; !known {
		return false
	}
	allowed := p.Extensions
	if len(allowed) == 0 {
		allowed = DefaultPolicy().Extensions
	}
	for _, candidate := range allowed {
		if strings.EqualFold(strings.TrimPrefix(candidate, "."), ext) {
			return true
		}
	}
	return false
}
