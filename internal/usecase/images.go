package usecase

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/phenrril/backoffice/internal/domain"
)

// ImageFile is an uploaded file before encoding.
type ImageFile struct {
	Name string
	Data []byte
}

// EncodeImage turns an uploaded image into a data URL.
func EncodeImage(f ImageFile) (string, error) {
	if len(f.Data) > domain.MaxImageBytes {
		return "", domain.Invalid("images", fmt.Sprintf("File %s is too large. Maximum size is 400KB", f.Name))
	}
	mt := mimetype.Detect(f.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.Invalid("images", fmt.Sprintf("File %s is not an image", f.Name))
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(f.Data), nil
}
