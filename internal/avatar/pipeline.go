// Package avatar normalizes profile-picture uploads to a canonical square
// JPEG before handing them to the media gateway.
package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/PharmInc/media-gateway/internal/media"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // webp decode support
)

const jpegQuality = 85

// mediaStore is the slice of the media service the pipeline needs.
type mediaStore interface {
	StoreAvatar(ctx context.Context, ownerID string, jpeg []byte) (media.StoredObject, error)
	MaxAvatarBytes() int64
}

// Pipeline converts accepted images into fixed-size square JPEG rasters.
type Pipeline struct {
	store mediaStore
	size  int
}

// NewPipeline constructs a pipeline producing size×size output images.
func NewPipeline(store mediaStore, size int) *Pipeline {
	return &Pipeline{store: store, size: size}
}

// NormalizeAndStore validates the source image, center-crops it to a square,
// re-encodes it as JPEG and stores it under the owner's stable key.
func (p *Pipeline) NormalizeAndStore(ctx context.Context, ownerID, mimeType string, src []byte) (media.StoredObject, error) {
	if ownerID == "" {
		return media.StoredObject{}, fmt.Errorf("%w: owner id is required", media.ErrValidation)
	}
	if int64(len(src)) > p.store.MaxAvatarBytes() {
		return media.StoredObject{}, fmt.Errorf("%w: image exceeds %d bytes", media.ErrValidation, p.store.MaxAvatarBytes())
	}
	if !media.AllowedImageType(mimeType) {
		return media.StoredObject{}, fmt.Errorf("%w: unsupported image type %q", media.ErrValidation, mimeType)
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return media.StoredObject{}, fmt.Errorf("%w: undecodable image: %v", media.ErrValidation, err)
	}

	normalized, err := p.encode(p.crop(img))
	if err != nil {
		return media.StoredObject{}, err
	}

	return p.store.StoreAvatar(ctx, ownerID, normalized)
}

// crop scales and center-crops to the fixed square target resolution.
func (p *Pipeline) crop(img image.Image) image.Image {
	return imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)
}

func (p *Pipeline) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
