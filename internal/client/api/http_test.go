package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhwalab/minhwa-cli/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jin@example.org", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","user":{"id":"u1","name":"Jin"}}`))
	})

	user, token, err := c.Login(context.Background(), "jin@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Jin", user.Name)
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := c.Login(context.Background(), "jin@example.org", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPredict_MultipartFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("user_id"))
		assert.Equal(t, "tiger", r.FormValue("style"))
		assert.Equal(t, "", r.FormValue("prompt"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "input.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","image_id":"abc123","user_id":"u1","created_at":"2025-01-01T00:00:00Z"}`))
	})

	file := UploadFile{Name: "input.png", MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	res, err := c.Predict(context.Background(), "u1", file, PredictOptions{Style: "tiger"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.ImageID)
	assert.Equal(t, 2025, res.CreatedAt.Year())
}

func TestTempImages_QueryAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("skip"))
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"image_id":"a","user_id":"u1","created_at":"2025-01-02T10:00:00Z","is_final":false}]`))
	})
	c.SetToken("tok123")

	records, err := c.TempImages(context.Background(), "u1", 50, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ImageID)
	assert.False(t, records[0].IsFinal)
}

func TestFinalizedImages_PathParam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/art/u1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"image_id":"b","user_id":"u1","created_at":"2025-01-03T10:00:00Z","is_final":true}]`))
	})

	records, err := c.FinalizedImages(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsFinal)
}

func TestFinalize_QueryParamNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/images/finalize", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("image_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"finalized","image_id":"abc123"}`))
	})

	assert.NoError(t, c.Finalize(context.Background(), "abc123"))
}

func TestDeleteImage_PathAndNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/images/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeleteImage(context.Background(), "abc123"))
	assert.ErrorIs(t, c.DeleteImage(context.Background(), "gone"), common.ErrNotFound)
}

func TestDo_ServerErrorMapsToUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.TempImages(context.Background(), "u1", 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_TransportErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewHTTPClient(srv.URL, 5*time.Second)
	srv.Close()

	_, err := c.TempImages(context.Background(), "u1", 10, 0)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTransformURL_CacheBusting(t *testing.T) {
	fixed := time.UnixMilli(1735689600000)
	old := nowFn
	nowFn = func() time.Time { return fixed }
	defer func() { nowFn = old }()

	c := NewHTTPClient("http://localhost:8000/", time.Second)
	got := c.TransformURL("abc123")

	assert.Equal(t, "http://localhost:8000/image/abc123/transform?t=1735689600000", got)
}
