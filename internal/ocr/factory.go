package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".tiff": "image/tiff",
	".pdf":  "application/pdf",
}

// MIMEForExtension resolves a file extension to its MIME type.
func MIMEForExtension(ext string) (string, bool) {
	mimeType, ok := extToMIME[strings.ToLower(ext)]
	return mimeType, ok
}

// Factory owns the configured engines and picks one per file type.
type Factory struct {
	engines map[string]Engine
	logger  logger.Logger
}

// NewFactory builds engines for the backend named by OCR_ENGINE.
// Tesseract cannot read PDFs, so under that backend PDF files fall back
// to embedded text extraction.
func NewFactory(ctx context.Context, log logger.Logger) (*Factory, error) {
	factory := &Factory{
		engines: make(map[string]Engine),
		logger:  log,
	}

	ocrCfg := config.GetOCRConfig()

	switch ocrCfg.Engine {
	case "mistral":
		engine := NewMistralEngine(config.GetMistralConfig(), log)
		factory.registerAll(engine)

	case "textract":
		engine, err := NewTextractEngine(ctx, config.GetTextractConfig(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to create textract engine: %w", err)
		}
		factory.registerAll(engine)

	case "tesseract":
		engine := NewTesseractEngine(ocrCfg, log)
		factory.registerAll(engine)
		factory.engines["application/pdf"] = NewPDFTextEngine(log)

	default:
		return nil, fmt.Errorf("unknown OCR engine: %s", ocrCfg.Engine)
	}

	log.Info("OCR factory initialized",
		logger.String("engine", ocrCfg.Engine),
	)

	return factory, nil
}

func (f *Factory) registerAll(engine Engine) {
	for _, mimeType := range extToMIME {
		if engine.CanProcess(mimeType) {
			f.engines[mimeType] = engine
		}
	}
}

// EngineFor returns the engine registered for the file extension.
func (f *Factory) EngineFor(ext string) (Engine, error) {
	mimeType, ok := MIMEForExtension(ext)
	if !ok {
		f.logger.Error("Unsupported file type",
			logger.String("ext", ext),
		)
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	engine, ok := f.engines[mimeType]
	if !ok {
		return nil, fmt.Errorf("no engine available for mime type: %s", mimeType)
	}

	return engine, nil
}

// Recognize resolves the engine for ext and runs it over data.
func (f *Factory) Recognize(ctx context.Context, data []byte, ext string) (*Document, error) {
	engine, err := f.EngineFor(ext)
	if err != nil {
		return nil, err
	}

	mimeType, _ := MIMEForExtension(ext)
	return engine.Recognize(ctx, data, mimeType)
}

// Close shuts down every registered engine.
func (f *Factory) Close() error {
	seen := make(map[Engine]bool)
	for _, engine := range f.engines {
		if seen[engine] {
			continue
		}
		seen[engine] = true
		if err := engine.Close(); err != nil {
			return err
		}
	}
	return nil
}
