package objectstore

import (
	"net/http"

	"github.com/letspunt/adpage/internal/apperr"
)

// MaxImageSize is the upload limit for listing images and avatars.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Image is a validated upload payload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// NewImage sniffs data and accepts jpeg, png and gif up to MaxImageSize.
func NewImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, apperr.NewValidation("file is empty")
	}
	if len(data) > MaxImageSize {
		return Image{}, apperr.NewValidation("file exceeds the 5MB limit")
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return Image{}, apperr.NewValidation("only jpeg, png and gif images are allowed")
	}

	return Image{Data: data, ContentType: contentType, Ext: ext}, nil
}
