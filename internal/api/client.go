// Package api is the HTTP transport of the gateway: it builds requests
// against the REST API, attaches bearer and CSRF tokens, encodes JSON or
// multipart bodies and decodes responses and server error messages.
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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
// The session state satisfies it.
type TokenSource interface {
	Token() string
}

// FileField is a single binary attachment for a multipart request.
type FileField struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Client issues requests against the API base URL. It is safe for concurrent
// use; independently dispatched operations share one client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger

	mu   sync.Mutex
	csrf string
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// FetchCSRF obtains a CSRF token and installs it on the client. Subsequent
// POST requests carry it in the X-CSRFToken header, mirroring the browser
// client's global default.
func (c *Client) FetchCSRF(ctx context.Context) error {
	var resp struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.Get(ctx, "/csrf/", false, &resp); err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}
	c.mu.Lock()
	c.csrf = resp.CSRFToken
	c.mu.Unlock()
	return nil
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, authed bool, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, authed, nil, out)
}

// GetWithToken issues a GET request carrying an explicit bearer token. Used
// by the login exchange to resolve the profile before the session exists.
func (c *Client) GetWithToken(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, "", out)
}

// Post issues a JSON POST request.
func (c *Client) Post(ctx context.Context, path string, authed bool, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, authed, in, out)
}

// Patch issues a JSON PATCH request.
func (c *Client) Patch(ctx context.Context, path string, authed bool, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, authed, in, out)
}

// Put issues a JSON PUT request.
func (c *Client) Put(ctx context.Context, path string, authed bool, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, authed, in, out)
}

// Delete issues a DELETE request. The response body, if any, is discarded.
func (c *Client) Delete(ctx context.Context, path string, authed bool) error {
	return c.doJSON(ctx, http.MethodDelete, path, authed, nil, nil)
}

// PostForm issues a multipart POST with the given fields and optional file.
func (c *Client) PostForm(ctx context.Context, path string, authed bool, fields map[string]string, file *FileField, out any) error {
	return c.doForm(ctx, http.MethodPost, path, authed, fields, file, out)
}

// PatchForm issues a multipart PATCH with the given fields and optional file.
func (c *Client) PatchForm(ctx context.Context, path string, authed bool, fields map[string]string, file *FileField, out any) error {
	return c.doForm(ctx, http.MethodPatch, path, authed, fields, file, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	token, err := c.resolveToken(authed)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, "application/json", out)
}

// resolveToken reads the bearer token from the session when the operation
// requires auth, failing fast before any network activity when none is held.
func (c *Client) resolveToken(authed bool) (string, error) {
	if !authed {
		return "", nil
	}
	token := c.tokens.Token()
	if token == "" {
		c.log.Debug().Msg("No usable bearer token, failing before dispatch")
		return "", ErrUnauthenticated
	}
	return token, nil
}

func (c *Client) doForm(ctx context.Context, method, path string, authed bool, fields map[string]string, file *FileField, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("encode form field %q: %w", key, err)
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return fmt.Errorf("encode form file: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("write form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize form body: %w", err)
	}
	token, err := c.resolveToken(authed)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	requestID := uuid.New().String()
	logger := c.log.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost {
		c.mu.Lock()
		if c.csrf != "" {
			req.Header.Set("X-CSRFToken", c.csrf)
		}
		c.mu.Unlock()
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("Request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError extracts the server-provided message from an error response,
// trying the body shapes the API is known to use.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Detail != "":
			apiErr.Message = body.Detail
		case body.Message != "":
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
