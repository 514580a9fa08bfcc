// Package imageutil normalizes uploaded images for embedding in documents.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the longest side of a prepared logo in pixels
const DefaultMaxDimension = 600

// MaxLogoBytes is the largest logo accepted before decoding
const MaxLogoBytes = 5 << 20

var ErrEmptyImage = errors.New("empty image")

// ResizeConfig holds configuration for logo preparation
type ResizeConfig struct {
	MaxDimension int  // Maximum width or height
	Flatten      bool // composite transparent pixels onto white
}

// DefaultConfig returns default resize configuration
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Flatten:      true,
	}
}

// Logo is a decoded image re-encoded as PNG
type Logo struct {
	PNG    []byte
	Width  int
	Height int
}

// PrepareLogo decodes a PNG, JPEG or GIF image, downsizes it to the configured
// maximum dimension keeping its aspect ratio, and re-encodes it as PNG.
func PrepareLogo(data []byte, config *ResizeConfig) (*Logo, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxLogoBytes {
		return nil, fmt.Errorf("logo too large: %d bytes", len(data))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	newWidth, newHeight := fit(width, height, config.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	if config.Flatten {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}

	// CatmullRom is close to Lanczos quality
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}

	return &Logo{PNG: buf.Bytes(), Width: newWidth, Height: newHeight}, nil
}

// PrepareLogoReader reads an image from r and prepares it
func PrepareLogoReader(r io.Reader, config *ResizeConfig) (*Logo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return PrepareLogo(data, config)
}

// fit scales width x height down so neither side exceeds max
func fit(width, height, max int) (int, int) {
	if max <= 0 || (width <= max && height <= max) {
		return width, height
	}
	if width > height {
		h := height * max / width
		if h < 1 {
			h = 1
		}
		return max, h
	}
	w := width * max / height
	if w < 1 {
		w = 1
	}
	return w, max
}
