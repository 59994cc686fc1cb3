// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package parsehttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"zb.256lights.llc/luaparse/internal/astjson"
	"zb.256lights.llc/luaparse/internal/useragent"
	"zombiezen.com/go/log"
	"zombiezen.com/go/uritemplate"
)

// A Client parses Lua source using a server that runs [NewHandler].
type Client struct {
	// URL is the URL of the server's root resource.
	// This must be non-nil or the client's methods will return errors.
	URL *url.URL
	// HTTPClient is used to make HTTP requests.
	// If HTTPClient is nil, then [http.DefaultClient] is used.
	HTTPClient *http.Client
}

func (c *Client) client() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Result is a successful response from [*Client.Parse].
type Result struct {
	// AST is the JSON-encoded syntax tree.
	// It is empty if the source failed to parse.
	AST jsontext.Value
	// Error describes why the source failed to parse.
	// It is nil if the source parsed successfully.
	Error *astjson.Error
}

// Parse sends the source to the server for parsing.
// A syntax error in the source is reported in [Result.Error],
// not as an error return.
func (c *Client) Parse(ctx context.Context, chunkName string, source []byte) (*Result, error) {
	u, err := c.parseURL(ctx, chunkName)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", chunkName, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", chunkName, err)
	}
	req.Header.Set("Content-Type", "text/x-lua")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", useragent.String())
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", chunkName, err)
	}
	defer resp.Body.Close()
	log.Debugf(ctx, "Parse %s: %s (request %s)", chunkName, resp.Status, resp.Header.Get(RequestIDHeader))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("parse %s: %w", chunkName, &httpError{
			statusCode: resp.StatusCode,
			status:     resp.Status,
		})
	}
	data, err := readResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", chunkName, err)
	}
	var body struct {
		AST   jsontext.Value `json:"ast"`
		Error *astjson.Error `json:"error"`
	}
	if err := jsonv2.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("parse %s: %v", chunkName, err)
	}
	if body.Error == nil && len(body.AST) == 0 {
		return nil, fmt.Errorf("parse %s: %w", chunkName, &httpError{
			statusCode: resp.StatusCode,
			status:     resp.Status,
		})
	}
	return &Result{AST: body.AST, Error: body.Error}, nil
}

// parseURL discovers the parse endpoint from the root resource
// and expands it for the given chunk name.
func (c *Client) parseURL(ctx context.Context, chunkName string) (*url.URL, error) {
	if c.URL == nil {
		return nil, fmt.Errorf("get index: url missing")
	}
	data, err := fetch(ctx, c.client(), c.URL, "application/hal+json,application/json;q=0.9")
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}
	doc := new(indexDocument)
	if err := jsonv2.Unmarshal(data, doc, jsonv2.RejectUnknownMembers(false)); err != nil {
		return nil, fmt.Errorf("get index: %v", err)
	}
	l := doc.Links[parseRelationType]
	if l == nil {
		return nil, fmt.Errorf("get index: missing %q link", parseRelationType)
	}
	href := l.HRef
	if l.Templated {
		href, err = uritemplate.Expand(href, map[string]string{"chunk": chunkName})
		if err != nil {
			return nil, fmt.Errorf("expand %q link: %v", parseRelationType, err)
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("expand %q link: %v", parseRelationType, err)
	}
	return c.URL.ResolveReference(ref), nil
}

func fetch(ctx context.Context, client *http.Client, u *url.URL, accept string) ([]byte, error) {
	req := (&http.Request{
		Method: http.MethodGet,
		URL:    u,
		Header: http.Header{
			"Accept":          {accept},
			"Accept-Encoding": {acceptEncoding},
			"User-Agent":      {useragent.String()},
		},
	}).WithContext(ctx)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %v: %v", u.Redacted(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %v: %w", u.Redacted(), &httpError{
			statusCode: resp.StatusCode,
			status:     resp.Status,
		})
	}
	data, err := readResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %v: %v", u.Redacted(), err)
	}
	return data, nil
}

// readResponse reads a response body of bounded size,
// decoding it if the server compressed it.
// The Go HTTP transport only decodes gzip transparently
// when it added the Accept-Encoding header itself.
func readResponse(resp *http.Response) ([]byte, error) {
	const mebibyte = 1 << 20
	const maxSize = 64 * mebibyte
	if resp.ContentLength > maxSize {
		return nil, fmt.Errorf("response too large (%.1f MiB)", float64(resp.ContentLength)/mebibyte)
	}
	dec, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(io.LimitReader(dec, maxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("response too large")
	}
	return data, nil
}

type httpError struct {
	statusCode int
	status     string
}

func (e *httpError) Error() string {
	return "http " + e.status
}

// StatusCode returns the HTTP status code of an error returned by [*Client.Parse]
// or false if the error was not caused by an unexpected HTTP response.
func StatusCode(err error) (int, bool) {
	var e *httpError
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.statusCode, true
}
