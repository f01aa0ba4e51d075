package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pgg/classroom/core/class"
)

const clientTimeout = 10 * time.Second

// apiError is the body of any non-2xx response: either {"error": msg} or a map of field errors.
type apiError struct {
	status int
	fields map[string]string
}

func (e *apiError) Error() string {
	if msg, ok := e.fields["error"]; ok {
		return msg
	}
	parts := make([]string, 0, len(e.fields))
	for f, msg := range e.fields {
		parts = append(parts, f+": "+msg)
	}
	if len(parts) == 0 {
		return http.StatusText(e.status)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// classClient talks to the /v1/classes endpoints.
type classClient struct {
	baseURL string
	http    *http.Client
}

func newClassClient(baseURL string) *classClient {
	return &classClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: clientTimeout},
	}
}

func (c *classClient) list(ctx context.Context, search, ordering string) ([]class.ClassInfo, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if ordering != "" {
		q.Set("ordering", ordering)
	}
	path := "/v1/classes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var classes []class.ClassInfo
	if err := c.do(ctx, http.MethodGet, path, nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *classClient) load(ctx context.Context) ([]class.ClassInfo, error) {
	var classes []class.ClassInfo
	if err := c.do(ctx, http.MethodPost, "/v1/classes/load", nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// active returns nil when no class is selected.
func (c *classClient) active(ctx context.Context) (*class.ClassInfo, error) {
	var resp struct {
		Class *class.ClassInfo `json:"class"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/classes/active", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Class, nil
}

func (c *classClient) selectClass(ctx context.Context, id int) (class.ClassInfo, error) {
	var cls class.ClassInfo
	if err := c.do(ctx, http.MethodPut, "/v1/classes/active", class.SelectClass{ID: id}, &cls); err != nil {
		return class.ClassInfo{}, err
	}
	return cls, nil
}

func (c *classClient) add(ctx context.Context, name string, id int) (class.ClassInfo, error) {
	var cls class.ClassInfo
	if err := c.do(ctx, http.MethodPost, "/v1/classes", class.NewClass{Name: name, ID: id}, &cls); err != nil {
		return class.ClassInfo{}, err
	}
	return cls, nil
}

func (c *classClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.fields)
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, fmt.Sprintf("decoding %s %s response", method, path))
	}
	return nil
}
