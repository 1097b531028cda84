package config

import (
	"sync"
	"time"
)

var (
	ocrOnce   sync.Once
	ocrConfig *OCRConfig
)

// OCRConfig selects and tunes the OCR engine used for uploaded invoices.
// Engine is one of "mistral", "textract" or "tesseract".
type OCRConfig struct {
	Engine    string
	Languages []string // tesseract only
}

func GetOCRConfig() *OCRConfig {
	ocrOnce.Do(func() {
		loadEnv()
		ocrConfig = &OCRConfig{
			Engine:    getenv("OCR_ENGINE", "mistral"),
			Languages: []string{getenv("OCR_LANGUAGE", "eng")},
		}
	})
	return ocrConfig
}

var (
	mistralOnce   sync.Once
	mistralConfig *MistralConfig
)

type MistralConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func GetMistralConfig() *MistralConfig {
	mistralOnce.Do(func() {
		loadEnv()
		mistralConfig = &MistralConfig{
			APIURL:  getenv("MISTRAL_API_URL", "https://api.mistral.ai/v1"),
			APIKey:  getenv("MISTRAL_API_KEY", ""),
			Model:   getenv("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
			Timeout: time.Duration(getenvInt("MISTRAL_TIMEOUT_SECONDS", 120)) * time.Second,
		}
	})
	return mistralConfig
}

var (
	textractOnce   sync.Once
	textractConfig *TextractConfig
)

type TextractConfig struct {
	Region        string
	AccessKey     string
	SecretKey     string
	MinConfidence float32
}

func GetTextractConfig() *TextractConfig {
	textractOnce.Do(func() {
		loadEnv()
		textractConfig = &TextractConfig{
			Region:        getenv("AWS_REGION", "us-east-1"),
			AccessKey:     getenv("AWS_ACCESS_KEY", ""),
			SecretKey:     getenv("AWS_SECRET_KEY", ""),
			MinConfidence: float32(getenvInt("TEXTRACT_MIN_CONFIDENCE", 80)),
		}
	})
	return textractConfig
}
