package validation

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"regexp"

	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

// Profile image limits
const (
	MaxImageBytes     = 1 << 20
	MinImageDimension = 500
	MaxImageDimension = 1000
)

var (
	uploadImagePattern = regexp.MustCompile(`^data:image/(jpeg|jpg|png);base64,(.+)$`)
	storedImagePattern = regexp.MustCompile(`^data:image/([a-zA-Z]*);base64,(.*)$`)
)

// ImageInfo describes a decoded profile image
type ImageInfo struct {
	Type   string
	Size   int
	Width  int
	Height int
}

// ValidateProfileImage checks that dataURL is a base64 JPEG or PNG data URL
// of at most 1 MiB holding a square image between 500 and 1000 pixels wide.
func ValidateProfileImage(dataURL string) (*ImageInfo, error) {
	matches := uploadImagePattern.FindStringSubmatch(dataURL)
	if matches == nil {
		return nil, apperrors.NewValidationError("Invalid image format. Only JPEG and PNG are allowed.")
	}
	declared := matches[1]

	raw, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, apperrors.NewValidationError("Image data is not valid base64.")
	}
	if len(raw) > MaxImageBytes {
		return nil, apperrors.NewValidationError("Image size exceeds 1MB limit.")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.NewValidationError("Unable to read image dimensions.")
	}
	if declared == "jpg" {
		declared = "jpeg"
	}
	if format != declared {
		return nil, apperrors.NewValidationError("Image content does not match its declared type.")
	}

	if cfg.Width != cfg.Height {
		return nil, apperrors.NewValidationError("Image must be square (width equals height).")
	}
	if cfg.Width < MinImageDimension || cfg.Width > MaxImageDimension {
		return nil, apperrors.NewValidationError("Image dimensions must be between 500x500 and 1000x1000 pixels.")
	}

	return &ImageInfo{Type: format, Size: len(raw), Width: cfg.Width, Height: cfg.Height}, nil
}

// DecodeStoredImage splits a stored data URL into its image subtype and bytes
func DecodeStoredImage(dataURL string) (string, []byte, error) {
	matches := storedImagePattern.FindStringSubmatch(dataURL)
	if matches == nil {
		return "", nil, apperrors.NewCustomError(apperrors.ErrInternal, "Stored image data is corrupted")
	}
	raw, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", nil, apperrors.NewCustomError(apperrors.ErrInternal, "Stored image data is corrupted")
	}
	return matches[1], raw, nil
}
