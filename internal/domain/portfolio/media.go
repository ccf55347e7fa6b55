package portfolio

type MediaType string

const (
	MediaNone  MediaType = ""
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaBoth  MediaType = "both"
)

// DeriveMediaType reports which media a project carries.
func DeriveMediaType(imageURL, videoURL string) MediaType {
	switch {
	case imageURL != "" && videoURL != "":
		return MediaBoth
	case imageURL != "":
		return MediaImage
	case videoURL != "":
		return MediaVideo
	}
	return MediaNone
}

// SyncMediaType must be called after any change to ImageURL or VideoURL.
func (p *Project) SyncMediaType() {
	p.MediaType = DeriveMediaType(p.ImageURL, p.VideoURL)
}

func (p Project) MediaConsistent() bool {
	return p.MediaType == DeriveMediaType(p.ImageURL, p.VideoURL)
}
