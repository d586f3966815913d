package stations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"golang.org/x/image/draw"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

const (
	startQuality = 85
	qualityStep  = 10
	qualityFloor = 40
	maxEncodes   = 5
)

type ResizeResult struct {
	File          ports.PendingFile
	OriginalSize  int
	NewSize       int
	WasCompressed bool
}

// S1Resize downsamples and re-encodes images that exceed the width or
// byte limits. It holds no mutable state and is safe for concurrent use.
type S1Resize struct {
	maxWidth int
	maxBytes int64
}

func NewS1Resize(maxWidth int, maxBytes int64) *S1Resize {
	return &S1Resize{maxWidth: maxWidth, maxBytes: maxBytes}
}

func (s *S1Resize) Run(file ports.PendingFile) (ResizeResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return ResizeResult{}, fmt.Errorf("decode image config: %w", err)
	}

	if cfg.Width <= s.maxWidth && int64(len(file.Data)) <= s.maxBytes {
		log.Printf("[S1][SKIP] file=%s width=%d bytes=%d", file.Name, cfg.Width, len(file.Data))
		return ResizeResult{
			File:          file,
			OriginalSize:  len(file.Data),
			NewSize:       len(file.Data),
			WasCompressed: false,
		}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return ResizeResult{}, fmt.Errorf("decode image: %w", err)
	}

	if cfg.Width > s.maxWidth {
		img = scaleToWidth(img, s.maxWidth)
	}

	encoded, err := s.encodeUnderBudget(img)
	if err != nil {
		return ResizeResult{}, err
	}

	log.Printf("[S1][OK] file=%s %d -> %d bytes", file.Name, len(file.Data), len(encoded))

	return ResizeResult{
		File: ports.PendingFile{
			Name:        file.Name,
			ContentType: "image/jpeg",
			Data:        encoded,
		},
		OriginalSize:  len(file.Data),
		NewSize:       len(encoded),
		WasCompressed: true,
	}, nil
}

// encodeUnderBudget re-encodes at decreasing quality until the result
// fits the byte budget or the quality floor / attempt cap is hit. A
// result still over budget at that point is accepted as-is.
func (s *S1Resize) encodeUnderBudget(img image.Image) ([]byte, error) {
	quality := startQuality
	var buf bytes.Buffer

	for attempt := 0; attempt < maxEncodes; attempt++ {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		if int64(buf.Len()) <= s.maxBytes || quality-qualityStep < qualityFloor {
			break
		}
		quality -= qualityStep
	}

	return buf.Bytes(), nil
}

func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
