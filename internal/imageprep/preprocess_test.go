package imageprep

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessDoublesDimensions(t *testing.T) {
	src := solidImage(40, 30, color.White)
	got := Preprocess(src).Bounds()
	if got.Dx() != 80 || got.Dy() != 60 {
		t.Errorf("bounds = %dx%d, want 80x60", got.Dx(), got.Dy())
	}
}

func TestPreprocessIsDeterministic(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	a := Preprocess(src)
	b := Preprocess(src)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two runs over the same input produced different pixels")
	}
}

func TestGrayscaleLuminanceWeights(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{R: 255, A: 255})
	got := grayscale(src).GrayAt(1, 1).Y
	// 0.299 * 255 rounds to 76.
	if got != 76 {
		t.Errorf("pure red luminance = %d, want 76", got)
	}
}

func TestStretchContrastClamps(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix[0], img.Pix[1], img.Pix[2] = 0, 128, 255
	stretchContrast(img)
	if img.Pix[0] != 0 {
		t.Errorf("black stretched to %d, want 0", img.Pix[0])
	}
	if img.Pix[2] != 255 {
		t.Errorf("white stretched to %d, want 255", img.Pix[2])
	}
	if img.Pix[1] != 128 {
		t.Errorf("mid-gray stretched to %d, want 128", img.Pix[1])
	}
}

func TestSharpenLeavesBorderUntouched(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 5))
	for i := range src.Pix {
		src.Pix[i] = 100
	}
	src.SetGray(2, 2, color.Gray{Y: 200})

	dst := sharpen(src)
	for x := 0; x < 5; x++ {
		if dst.GrayAt(x, 0).Y != 100 || dst.GrayAt(x, 4).Y != 100 {
			t.Fatalf("border pixel at column %d changed", x)
		}
	}
	// Center: 5*200 - 4*100 = 600, clamped to 255.
	if got := dst.GrayAt(2, 2).Y; got != 255 {
		t.Errorf("sharpened center = %d, want 255", got)
	}
	// Neighbor of the bright spot: 5*100 - (200+100+100+100) = 0.
	if got := dst.GrayAt(2, 1).Y; got != 0 {
		t.Errorf("sharpened neighbor = %d, want 0", got)
	}
}

func TestDecodeRejectsCorruptInput(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for corrupt input, got nil")
	}
}

func TestDecodeRoundTripsPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(8, 8, color.White)); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("decoded width = %d, want 8", img.Bounds().Dx())
	}
}
