package ocr

import (
	"image"
	"image/color"
	"testing"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

func testScanImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestTesseractPreprocessingChain(t *testing.T) {
	e := NewTesseractEngine(&config.OCRConfig{Languages: []string{"eng"}}, logger.NewTestLogger())

	var hasDenoise bool
	for _, p := range e.preprocessors {
		if _, ok := p.(*DenoiseProcessor); ok {
			hasDenoise = true
		}
	}
	if !hasDenoise {
		t.Error("preprocessing chain is missing the denoise stage")
	}

	src := testScanImage()
	out, err := e.applyPreprocessing(src)
	if err != nil {
		t.Fatalf("applyPreprocessing: %v", err)
	}
	if out == nil {
		t.Fatal("applyPreprocessing returned nil image")
	}
	if got, want := out.Bounds().Size(), src.Bounds().Size(); got != want {
		t.Errorf("processed image size = %v, want %v", got, want)
	}
}

func TestTesseractCanProcess(t *testing.T) {
	e := NewTesseractEngine(&config.OCRConfig{Languages: []string{"eng"}}, logger.NewTestLogger())

	for _, mime := range []string{"image/jpeg", "image/png", "image/tiff"} {
		if !e.CanProcess(mime) {
			t.Errorf("CanProcess(%q) = false, want true", mime)
		}
	}
	if e.CanProcess("application/pdf") {
		t.Error("CanProcess(application/pdf) = true, want false")
	}
}
