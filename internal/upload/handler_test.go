package upload

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoodrop/service/internal/response"
	"github.com/zoodrop/service/internal/storage"
)

// newTestRouter wires a handler over local disk storage with mock gate
// and ledger, matching the route layout in main.
func newTestRouter(t *testing.T, maxBytes int64) (*chi.Mux, *mockLedger) {
	t.Helper()

	store, err := storage.NewLocal(t.TempDir(), "http://drop.test")
	require.NoError(t, err)

	gate := &mockGate{valid: map[string]bool{"validkey": true}}
	ledger := newMockLedger()
	h := NewHandler(NewService(gate, store, ledger), store, maxBytes)

	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Get("/{file}", h.Download)
	return r, ledger
}

// multipartBody builds a multipart form from ordered (name, value) pairs;
// names equal to "file" become binary file parts.
func multipartBody(t *testing.T, parts ...[2]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p[0] == "file" {
			fw, err := w.CreateFormFile("file", "upload.bin")
			require.NoError(t, err)
			_, err = fw.Write([]byte(p[1]))
			require.NoError(t, err)
			continue
		}
		require.NoError(t, w.WriteField(p[0], p[1]))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, r http.Handler, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	r, ledger := newTestRouter(t, 0)

	body, contentType := multipartBody(t,
		[2]string{"file", string(pngBytes)},
		[2]string{"password", "validkey"},
	)
	rec, env := doUpload(t, r, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success, "unexpected rejection: %s", env.Content)
	require.True(t, strings.HasSuffix(env.Content, ".png"))

	u, err := url.Parse(env.Content)
	require.NoError(t, err)

	dlReq := httptest.NewRequest(http.MethodGet, u.Path, nil)
	dlRec := httptest.NewRecorder()
	r.ServeHTTP(dlRec, dlReq)

	require.Equal(t, http.StatusOK, dlRec.Code)
	assert.Equal(t, "image/png", dlRec.Header().Get("Content-Type"))

	got, err := io.ReadAll(dlRec.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got, "downloaded bytes must match the upload")

	// The access ledger fires asynchronously to the byte response.
	identifier := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".png")
	assert.Eventually(t, func() bool {
		return ledger.accessCount(identifier) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUploadUndeterminedFile(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	body, contentType := multipartBody(t,
		[2]string{"file", string(noiseBytes)},
		[2]string{"password", "validkey"},
	)
	rec, env := doUpload(t, r, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "File type could not be determined", env.Content)
}

func TestUploadEmptyToken(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	body, contentType := multipartBody(t,
		[2]string{"file", string(pngBytes)},
		[2]string{"password", ""},
	)
	rec, env := doUpload(t, r, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Please supply an authentication token", env.Content)
}

func TestUploadRevokedToken(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	body, contentType := multipartBody(t,
		[2]string{"file", string(pngBytes)},
		[2]string{"password", "revokedkey"},
	)
	rec, env := doUpload(t, r, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid authentication token", env.Content)
}

func TestUploadFirstPartWins(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	// Valid file and token first; bogus duplicates after.
	body, contentType := multipartBody(t,
		[2]string{"file", string(pngBytes)},
		[2]string{"password", "validkey"},
		[2]string{"file", string(noiseBytes)},
		[2]string{"password", "revokedkey"},
	)
	rec, env := doUpload(t, r, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success, "first file and password parts must win: %s", env.Content)
	assert.True(t, strings.HasSuffix(env.Content, ".png"))
}

func TestUploadNonMultipartBody(t *testing.T) {
	r, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Malformed multipart body", env.Content)
}

func TestUploadPayloadTooLarge(t *testing.T) {
	r, _ := newTestRouter(t, 64)

	big := append([]byte{}, pngBytes...)
	big = append(big, bytes.Repeat([]byte{0xAA}, 4096)...)
	body, contentType := multipartBody(t,
		[2]string{"file", string(big)},
		[2]string{"password", "validkey"},
	)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "oversize maps to a client error, not a server error")
	assert.False(t, env.Success)
}

func TestDownloadUnknownIdentifier(t *testing.T) {
	r, ledger := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/nosuchanimal.png", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 NOT FOUND")
	assert.Empty(t, ledger.accesses, "no ledger update for a failed download")
}

func TestDownloadRepeatedAccessesIncrement(t *testing.T) {
	r, ledger := newTestRouter(t, 0)

	body, contentType := multipartBody(t,
		[2]string{"file", string(pngBytes)},
		[2]string{"password", "validkey"},
	)
	_, env := doUpload(t, r, body, contentType)
	require.True(t, env.Success)

	u, err := url.Parse(env.Content)
	require.NoError(t, err)
	identifier := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".png")

	var lastBody []byte
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, u.Path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		lastBody = rec.Body.Bytes()
	}

	assert.Equal(t, pngBytes, lastBody, "downloads never change the stored bytes")
	assert.Eventually(t, func() bool {
		return ledger.accessCount(identifier) == 3
	}, 2*time.Second, 10*time.Millisecond)
}
