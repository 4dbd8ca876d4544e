package ocr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.Config{
		OCR: config.OCRConfig{
			APIKey:  "test-key",
			BaseURL: srv.URL,
			Timeout: 5 * time.Second,
		},
	})
}

func TestRecognizeText_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "eng", r.FormValue("language"))
		assert.Equal(t, "2", r.FormValue("OCREngine"))
		assert.Contains(t, r.FormValue("base64Image"), "data:image/jpeg;base64,")
		fmt.Fprint(w, `{"ParsedResults": [{"ParsedText": "Ingredients: Water, Glycerin"}], "IsErroredOnProcessing": false}`)
	})

	got, err := client.RecognizeText(context.Background(), []byte("fake image"))
	require.NoError(t, err)
	assert.Equal(t, "Ingredients: Water, Glycerin", got)
}

func TestRecognizeText_ProcessingError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults": [], "IsErroredOnProcessing": true, "ErrorMessage": ["bad image"]}`)
	})

	_, err := client.RecognizeText(context.Background(), []byte("fake image"))
	assert.ErrorIs(t, err, common.ErrOCRFailed)
}

func TestRecognizeText_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.RecognizeText(context.Background(), []byte("fake image"))
	assert.ErrorIs(t, err, common.ErrOCRFailed)
}

func TestExtract_EndToEnd(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults": [{"ParsedText": "Ingredients: Aqua, Glydern, Niacinamide"}], "IsErroredOnProcessing": false}`)
	})

	got, err := client.Extract(context.Background(), []byte("fake image"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Water", "Glycerin", "Niacinamide"}, got)
}

func TestExtract_NoIngredients(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ParsedResults": [{"ParsedText": ""}], "IsErroredOnProcessing": false}`)
	})

	_, err := client.Extract(context.Background(), []byte("fake image"))
	assert.ErrorIs(t, err, common.ErrNoIngredientsFound)
}

func TestRecognizeText_MissingKey(t *testing.T) {
	client := NewClient(&config.Config{
		OCR: config.OCRConfig{BaseURL: "http://unused", Timeout: time.Second},
	})

	_, err := client.RecognizeText(context.Background(), []byte("fake image"))
	assert.ErrorIs(t, err, common.ErrOCRKeyMissing)
}
