package media_storage

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/khoahotran/spotme/internal/application/service"
)

const (
	avatarSize    = 400
	avatarQuality = 85
)

type avatarProcessor struct {
	size int
}

// NewAvatarProcessor crops uploads to a square JPEG, correcting EXIF
// orientation on the way.
func NewAvatarProcessor() service.ImageProcessor {
	return &avatarProcessor{size: avatarSize}
}

func (p *avatarProcessor) Normalize(r io.Reader) (io.Reader, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	var out image.Image = img
	if b := img.Bounds(); b.Dx() != p.size || b.Dy() != p.size {
		out = imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(avatarQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return &buf, "jpg", nil
}
