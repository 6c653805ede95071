package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minhwalab/minhwa-cli/internal/client/models"
	"github.com/minhwalab/minhwa-cli/internal/common"
)

// nowFn is a test seam for cache-busting timestamps.
var nowFn = time.Now

// HTTPClient is the concrete Client speaking the backend's REST surface.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the backend at baseURL. A trailing
// slash on baseURL is tolerated. timeout bounds every remote call.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", err
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, "", err
	}
	if resp.User == nil {
		return nil, "", fmt.Errorf("login response without user: %w", common.ErrInternal)
	}
	return resp.User, resp.AccessToken, nil
}

func (c *HTTPClient) Predict(ctx context.Context, userID string, file UploadFile, opts PredictOptions) (*models.PredictResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// user_id is sent even when empty: the backend accepts anonymous requests.
	if err := w.WriteField("user_id", userID); err != nil {
		return nil, err
	}
	part, err := createFilePart(w, file)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"style":   opts.Style,
		"quality": opts.Quality,
		"prompt":  opts.Prompt,
	} {
		if value == "" {
			continue
		}
		if err := w.WriteField(field, value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var result models.PredictResult
	if err := c.do(ctx, http.MethodPost, "/predict", nil, &buf, w.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func createFilePart(w *multipart.Writer, file UploadFile) (io.Writer, error) {
	if file.MIME == "" {
		return w.CreateFormFile("file", file.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	h.Set("Content-Type", file.MIME)
	return w.CreatePart(h)
}

func (c *HTTPClient) TempImages(ctx context.Context, userID string, limit, skip int) ([]models.ImageRecord, error) {
	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa(skip))

	var records []models.ImageRecord
	if err := c.do(ctx, http.MethodGet, "/images", query, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) FinalizedImages(ctx context.Context, userID string) ([]models.ImageRecord, error) {
	var records []models.ImageRecord
	path := "/art/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) Finalize(ctx context.Context, imageID string) error {
	query := url.Values{}
	query.Set("image_id", imageID)
	return c.do(ctx, http.MethodPost, "/images/finalize", query, nil, "", nil)
}

func (c *HTTPClient) DeleteImage(ctx context.Context, imageID string) error {
	return c.do(ctx, http.MethodDelete, "/images/"+url.PathEscape(imageID), nil, nil, "", nil)
}

// TransformURL appends a current-time query parameter so a freshly mutated
// asset is never served from an HTTP cache.
func (c *HTTPClient) TransformURL(imageID string) string {
	return fmt.Sprintf("%s/image/%s/transform?t=%d", c.baseURL, url.PathEscape(imageID), nowFn().UnixMilli())
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Transport failures, timeouts and 5xx responses map to
// ErrUnavailable; 401/403 to common.ErrUnauthorized; 404 to common.ErrNotFound.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decoding
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, ErrUnavailable)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}
