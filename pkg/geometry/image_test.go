package geometry

import (
	"image"
	"testing"
)

func TestToByte(t *testing.T) {
	tests := []struct {
		in       float64
		expected uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 127},
		{1, 255},
		{3, 255},
	}
	for _, tt := range tests {
		if got := toByte(tt.in); got != tt.expected {
			t.Errorf("toByte(%f): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}

func TestImage_ToImage(t *testing.T) {
	img := NewImage(2, 1, 3)
	copy(img.Pix, []uint8{10, 20, 30, 40, 50, 60})

	out, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	rgba, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("Expected *image.RGBA, got %T", out)
	}
	c := rgba.RGBAAt(1, 0)
	if c.R != 40 || c.G != 50 || c.B != 60 || c.A != 255 {
		t.Errorf("Expected (40,50,60,255), got %v", c)
	}

	if _, err := NewImage(1, 1, 2).ToImage(); err == nil {
		t.Error("Expected error for 2-channel image")
	}
}

func TestImage_Equal(t *testing.T) {
	a := NewImage(2, 2, 1)
	b := NewImage(2, 2, 1)
	if !a.Equal(b) {
		t.Error("Expected zeroed images to be equal")
	}
	b.Pix[3] = 1
	if a.Equal(b) {
		t.Error("Expected images to differ")
	}
	if a.Equal(NewImage(4, 1, 1)) {
		t.Error("Expected differently shaped images to differ")
	}
}
