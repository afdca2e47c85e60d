package geometry

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a rendered byte buffer in display order: Pix[(y*Width+x)*Channels+c]
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zeroed image
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// At returns the channel values of pixel (x, y)
func (img *Image) At(x, y int) []uint8 {
	i := img.offset(x, y)
	return img.Pix[i : i+img.Channels]
}

// Equal reports whether two images have the same shape and bytes
func (img *Image) Equal(other *Image) bool {
	if img.Width != other.Width || img.Height != other.Height || img.Channels != other.Channels {
		return false
	}
	for i := range img.Pix {
		if img.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// ToImage converts to a standard library image. One channel becomes Gray,
// three become opaque RGBA and four are taken as RGBA directly.
func (img *Image) ToImage() (image.Image, error) {
	bounds := image.Rect(0, 0, img.Width, img.Height)
	switch img.Channels {
	case 1:
		out := image.NewGray(bounds)
		copy(out.Pix, img.Pix)
		return out, nil
	case 3:
		out := image.NewRGBA(bounds)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				p := img.At(x, y)
				out.SetRGBA(x, y, color.RGBA{R: p[0], G: p[1], B: p[2], A: 255})
			}
		}
		return out, nil
	case 4:
		out := image.NewNRGBA(bounds)
		copy(out.Pix, img.Pix)
		return out, nil
	}
	return nil, fmt.Errorf("cannot convert %d-channel image", img.Channels)
}

func (img *Image) offset(x, y int) int {
	return (y*img.Width + x) * img.Channels
}

// toByte clamps v to [0, 1] and scales it to a byte, truncating
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
