package mot

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/google/uuid"
)

// ContentType values this implementation recognizes as slideshow
// images; MOT's content-type/content-subtype pair mirrors MIME
// image/jpeg and image/png (spec.md §4.6).
const (
	contentTypeImage   = 2 // MOT top-level ContentType: Image
	subTypeJPEG        = 1
	subTypePNG         = 3
)

// Slideshow is an image-upgraded MOT entity: the decoded image handle
// plus a synthesized correlation id for logging/tracking across the
// header/body/decode pipeline.
type Slideshow struct {
	ID          uuid.UUID
	TransportID uint16
	Name        string
	Image       image.Image
}

// upgradeSlideshow decodes entity.Body as a still image when the
// header declares image/jpeg or image/png content, per spec.md §4.6.
func upgradeSlideshow(e Entity) (Slideshow, bool) {
	if e.Header.ContentType != contentTypeImage {
		return Slideshow{}, false
	}

	var img image.Image
	var err error
	switch e.Header.ContentSubType {
	case subTypeJPEG:
		img, err = jpeg.Decode(bytes.NewReader(e.Body))
	case subTypePNG:
		img, err = png.Decode(bytes.NewReader(e.Body))
	default:
		return Slideshow{}, false
	}
	if err != nil {
		return Slideshow{}, false
	}

	return Slideshow{
		ID:          uuid.New(),
		TransportID: e.TransportID,
		Name:        e.Header.Name,
		Image:       img,
	}, true
}
