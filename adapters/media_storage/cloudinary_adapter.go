package media_storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/config"
	"github.com/khoahotran/spotme/pkg/logger"
)

var videoExts = map[string]bool{"mp4": true, "webm": true, "mov": true, "m4v": true, "ogv": true}

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.AssetStorage, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// publicID maps bucket/path onto a Cloudinary public id, which carries no
// file extension.
func publicID(bucket, p string) string {
	return path.Join(bucket, strings.TrimSuffix(p, path.Ext(p)))
}

func isVideo(p string) bool {
	return videoExts[strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))]
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, bucket, p string, file io.Reader) error {
	id := strings.TrimSuffix(p, path.Ext(p))
	_, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: id,
		Folder:   bucket,
	})
	if err != nil {
		return fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	return nil
}

func (a *cloudinaryAdapter) PublicURL(bucket, p string) (string, error) {
	id := publicID(bucket, p)
	if isVideo(p) {
		asset, err := a.cld.Video(id)
		if err != nil {
			return "", fmt.Errorf("failed to create cloudinary video asset: %w", err)
		}
		return asset.String()
	}
	asset, err := a.cld.Image(id)
	if err != nil {
		return "", fmt.Errorf("failed to create cloudinary image asset: %w", err)
	}
	return asset.String()
}
