package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/invoxa/invoice-manager/config"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

func mistralTestEngine(url string) *MistralEngine {
	return NewMistralEngine(&config.MistralConfig{
		APIURL:  url,
		APIKey:  "test-key",
		Model:   "mistral-ocr-latest",
		Timeout: 5 * time.Second,
	}, logger.NewTestLogger())
}

func TestMistralRecognizePDF(t *testing.T) {
	var got mistralRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ocr" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(mistralResponse{
			Model: "mistral-ocr-latest",
			Pages: []mistralPage{
				{Index: 0, Markdown: "# Invoice\nTotal: 10.00"},
				{Index: 1, Markdown: "Page two"},
			},
		})
	}))
	defer server.Close()

	engine := mistralTestEngine(server.URL)
	doc, err := engine.Recognize(context.Background(), []byte("%PDF-fake"), "application/pdf")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}

	if got.Model != "mistral-ocr-latest" {
		t.Errorf("request model = %q", got.Model)
	}
	if got.Document.Type != "document_url" {
		t.Errorf("document type = %q, want document_url", got.Document.Type)
	}
	if !strings.HasPrefix(got.Document.DocumentURL, "data:application/pdf;base64,") {
		t.Errorf("document URL missing data prefix: %q", got.Document.DocumentURL)
	}

	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(doc.Pages))
	}
	texts := doc.PageTexts()
	if texts[0] != "# Invoice\nTotal: 10.00" || texts[1] != "Page two" {
		t.Errorf("unexpected page texts: %v", texts)
	}
}

func TestMistralRecognizeImage(t *testing.T) {
	var got mistralRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(mistralResponse{
			Pages: []mistralPage{{Index: 0, Markdown: "scanned text"}},
		})
	}))
	defer server.Close()

	engine := mistralTestEngine(server.URL)
	doc, err := engine.Recognize(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}

	if got.Document.Type != "image_url" {
		t.Errorf("document type = %q, want image_url", got.Document.Type)
	}
	if !strings.HasPrefix(got.Document.ImageURL, "data:image/jpeg;base64,") {
		t.Errorf("image URL missing data prefix: %q", got.Document.ImageURL)
	}
	if doc.Text() != "scanned text" {
		t.Errorf("doc text = %q", doc.Text())
	}
}

func TestMistralRecognizeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(mistralError{Message: "invalid api key", Type: "auth_error"})
	}))
	defer server.Close()

	engine := mistralTestEngine(server.URL)
	_, err := engine.Recognize(context.Background(), []byte("x"), "application/pdf")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry API message, got %v", err)
	}
}

func TestMistralCanProcess(t *testing.T) {
	engine := mistralTestEngine("http://unused")
	for _, mimeType := range []string{"application/pdf", "image/jpeg", "image/png"} {
		if !engine.CanProcess(mimeType) {
			t.Errorf("CanProcess(%q) = false", mimeType)
		}
	}
	if engine.CanProcess("text/plain") {
		t.Error("CanProcess(text/plain) should be false")
	}
}
