package cvmatch

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

func (c *Client) getJSON(path string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return c.do(req, http.StatusOK, target)
}

func (c *Client) postJSON(path string, body interface{}, wantStatus int, target interface{}) error {
	return c.sendJSON(http.MethodPost, path, body, wantStatus, target)
}

func (c *Client) putJSON(path string, body interface{}, wantStatus int, target interface{}) error {
	return c.sendJSON(http.MethodPut, path, body, wantStatus, target)
}

func (c *Client) sendJSON(method, path string, body interface{}, wantStatus int, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(c.ctx, method, c.APIURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.do(req, wantStatus, target)
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodDelete, c.APIURL+path, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)

	return c.do(req, http.StatusNoContent, nil)
}

// postFile uploads the file at the given path as a single multipart form
// field and decodes the JSON response into target when provided.
func (c *Client) postFile(path, field, filePath string, wantStatus int, target interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return err
	}

	if _, err = io.Copy(part, file); err != nil {
		return err
	}
	w.Close()

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.APIURL+path, &b)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, wantStatus, target)
}

// do executes the request, checks the expected status code and decodes
// the response body into target when provided.
func (c *Client) do(req *http.Request, wantStatus int, target interface{}) error {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	var gzipReader *gzip.Reader
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
