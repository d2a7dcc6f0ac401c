package remotefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Tokens is what the client needs from a token provider.
type Tokens interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to a Drive-like file-storage API. The auto-backup uses it to
// upsert a single named file: look the name up, patch the existing file if
// found, create it otherwise.
type Client struct {
	baseURL   string // metadata and search, e.g. https://www.googleapis.com/drive/v3
	uploadURL string // upload endpoint root, e.g. https://www.googleapis.com/upload/drive/v3
	tokens    Tokens
	client    *http.Client
}

// NewClient builds a Client for the given API roots.
func NewClient(baseURL, uploadURL string, tokens Tokens) *Client {
	return &Client{
		baseURL:   baseURL,
		uploadURL: uploadURL,
		tokens:    tokens,
		client:    http.DefaultClient,
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(hc *http.Client) { c.client = hc }

// UploadByName writes payload to the file with the given name, overwriting
// the previous contents if the file already exists.
func (c *Client) UploadByName(ctx context.Context, name string, payload []byte) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	fileID, err := c.findFileID(ctx, token, name)
	if err != nil {
		return err
	}

	var method, target string
	var metadata map[string]string
	if fileID == "" {
		method = http.MethodPost
		target = c.uploadURL + "/files?uploadType=multipart"
		metadata = map[string]string{"name": name}
	} else {
		method = http.MethodPatch
		target = c.uploadURL + "/files/" + fileID + "?uploadType=multipart"
		metadata = map[string]string{}
	}

	body, contentType, err := multipartBody(metadata, payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload of %s returned status %d", name, resp.StatusCode)
	}
	return nil
}

// findFileID returns the id of the newest file with the given name, or ""
// when no such file exists.
func (c *Client) findFileID(ctx context.Context, token, name string) (string, error) {
	q := url.Values{
		"q":      {fmt.Sprintf("name = '%s' and trashed = false", name)},
		"fields": {"files(id)"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("searching for %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("file search returned status %d", resp.StatusCode)
	}

	var body struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}
	if len(body.Files) == 0 {
		return "", nil
	}
	return body.Files[0].ID, nil
}

// multipartBody builds the multipart/related request body the upload API
// expects: a JSON metadata part followed by the JSON payload part.
func multipartBody(metadata map[string]string, payload []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("creating metadata part: %w", err)
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return nil, "", fmt.Errorf("encoding metadata: %w", err)
	}

	dataHeader := textproto.MIMEHeader{}
	dataHeader.Set("Content-Type", "application/json")
	dataPart, err := w.CreatePart(dataHeader)
	if err != nil {
		return nil, "", fmt.Errorf("creating payload part: %w", err)
	}
	if _, err := dataPart.Write(payload); err != nil {
		return nil, "", fmt.Errorf("writing payload: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, "multipart/related; boundary=" + w.Boundary(), nil
}
