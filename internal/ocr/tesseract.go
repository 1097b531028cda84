package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

// TesseractEngine runs local OCR through gosseract. Images are pushed
// through a preprocessing pipeline before recognition to improve
// accuracy on scanned invoices.
type TesseractEngine struct {
	languages     []string
	preprocessors []ImagePreprocessor
	logger        logger.Logger
}

func NewTesseractEngine(cfg *config.OCRConfig, log logger.Logger) *TesseractEngine {
	return &TesseractEngine{
		languages: cfg.Languages,
		preprocessors: []ImagePreprocessor{
			NewGrayscaleProcessor(),
			NewDenoiseProcessor(0.5),
			NewContrastProcessor(20),
			NewSharpenProcessor(0.5),
		},
		logger: log,
	}
}

func (e *TesseractEngine) CanProcess(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png", "image/tiff":
		return true
	default:
		return false
	}
}

func (e *TesseractEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	// gosseract clients are not safe for concurrent use, one per call.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Join(e.languages, "+")); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	processed, err := e.applyPreprocessing(img)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess image: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, processed, &jpeg.Options{Quality: 100}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to get text: %w", err)
	}

	e.logger.Info("Tesseract recognition completed",
		logger.Int("chars", len(text)),
	)

	return &Document{
		Pages: []Page{{Index: 0, Markdown: text}},
	}, nil
}

func (e *TesseractEngine) applyPreprocessing(img image.Image) (image.Image, error) {
	result := img
	for _, p := range e.preprocessors {
		var err error
		result, err = p.Process(result)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, fmt.Errorf("preprocessor returned nil image")
		}
	}
	return result, nil
}

func (e *TesseractEngine) Close() error {
	return nil
}
