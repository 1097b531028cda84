package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

// MistralEngine calls the Mistral OCR API. Files are sent inline as
// base64 data URLs; PDFs go through the document_url field and images
// through image_url.
type MistralEngine struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     logger.Logger
}

type mistralDocument struct {
	Type         string `json:"type"`
	DocumentURL  string `json:"document_url,omitempty"`
	DocumentName string `json:"document_name,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

type mistralRequest struct {
	Model    string          `json:"model"`
	Document mistralDocument `json:"document"`
}

type mistralPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralResponse struct {
	Model string        `json:"model"`
	Pages []mistralPage `json:"pages"`
}

type mistralError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewMistralEngine(cfg *config.MistralConfig, log logger.Logger) *MistralEngine {
	return &MistralEngine{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

func (e *MistralEngine) CanProcess(mimeType string) bool {
	switch mimeType {
	case "application/pdf", "image/jpeg", "image/jpg", "image/png", "image/tiff":
		return true
	default:
		return false
	}
}

func (e *MistralEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Document, error) {
	encoded := base64.StdEncoding.EncodeToString(data)

	var doc mistralDocument
	if mimeType == "application/pdf" {
		doc = mistralDocument{
			Type:         "document_url",
			DocumentURL:  fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
			DocumentName: "invoice.pdf",
		}
	} else {
		doc = mistralDocument{
			Type:     "image_url",
			ImageURL: fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
		}
	}

	reqData, err := json.Marshal(mistralRequest{
		Model:    e.model,
		Document: doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.apiURL+"/ocr", bytes.NewReader(reqData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr mistralError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("mistral ocr error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var result mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	e.logger.Info("Mistral OCR completed",
		logger.String("model", result.Model),
		logger.Int("pages", len(result.Pages)),
	)

	pages := make([]Page, 0, len(result.Pages))
	for _, p := range result.Pages {
		pages = append(pages, Page{Index: p.Index, Markdown: p.Markdown})
	}

	return &Document{Pages: pages, Model: result.Model}, nil
}

func (e *MistralEngine) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}
