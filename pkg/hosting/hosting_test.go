package hosting

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-body")

func TestValidFilename(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "Valid uuid png", input: "anomalies_0b7d2c8e-8f43-4a53-9a55-0cf8e2f1c7a1.png", valid: true},
		{name: "Valid simple", input: "chart.png", valid: true},
		{name: "Invalid empty", input: "", valid: false},
		{name: "Invalid parent", input: "..", valid: false},
		{name: "Invalid traversal", input: "../etc/passwd", valid: false},
		{name: "Invalid nested", input: "a/b.png", valid: false},
		{name: "Invalid backslash", input: `a\b.png`, valid: false},
		{name: "Invalid embedded dots", input: "a..png", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidFilename(tc.input))
		})
	}
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5000/graficos/a.png", ImageURL("http://localhost:5000/", "a.png"))
	assert.Equal(t, "http://localhost:5000/graficos/a.png", ImageURL("http://localhost:5000", "a.png"))
}

func TestServer_UploadAndRetrieve(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(NewServer(dir, zaptest.NewLogger(t)))
	defer srv.Close()

	client := NewClient(srv.URL)
	url, err := client.Upload(context.Background(), "anomalies_test.png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/graficos/anomalies_test.png", url)

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, body)

	_, err = os.Stat(filepath.Join(dir, "anomalies_test.png"))
	assert.NoError(t, err)
}

func TestServer_UnknownFilename(t *testing.T) {
	srv := httptest.NewServer(NewServer(t.TempDir(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/graficos/missing.png")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RejectsInvalidFilename(t *testing.T) {
	srv := NewServer(t.TempDir(), nil)

	req := httptest.NewRequest(http.MethodGet, "/graficos/a..png", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RejectsEmptyUpload(t *testing.T) {
	srv := NewServer(t.TempDir(), nil)

	req := httptest.NewRequest(http.MethodPut, "/graficos/empty.png", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := httptest.NewServer(NewServer(t.TempDir(), nil))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).Health(context.Background()))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(base, WithTimeout(2*time.Second))
	_, err := client.Upload(context.Background(), "a.png", pngBytes)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrHostingUnavailable))

	err = client.Health(context.Background())
	assert.True(t, errors.Is(err, models.ErrHostingUnavailable))
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Upload(context.Background(), "a.png", pngBytes)
	require.Error(t, err)
	assert.Equal(t, models.KindHostingUnavailable, models.KindOf(err))
}

func TestClient_ClientErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Upload(context.Background(), "a.png", pngBytes)
	require.Error(t, err)
	assert.NotEqual(t, models.KindHostingUnavailable, models.KindOf(err))
}

func TestDirHost_Upload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graficos")
	host := NewDirHost(dir, "http://localhost:5000")

	url, err := host.Upload(context.Background(), "chart.png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/graficos/chart.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "chart.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	_, err = os.Stat(filepath.Join(dir, "chart.png.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestDirHost_InvalidFilename(t *testing.T) {
	host := NewDirHost(t.TempDir(), "http://localhost:5000")

	_, err := host.Upload(context.Background(), "../escape.png", pngBytes)
	assert.Error(t, err)
}
