// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// Package parsehttp provides an HTTP API for parsing Lua source
// and a client for it.
//
// The root resource is a JSON document with HAL-style links.
// Its "parse" link is a URI template that accepts a chunk name:
//
//	{"_links": {"parse": {"href": "/parse{?chunk}", "templated": true}, ...}}
//
// POSTing Lua source to the expanded link responds with {"ast": ...}
// on success or {"error": ...} with a 400 status code on failure.
// The JSON forms are documented in [zb.256lights.llc/luaparse/internal/astjson].
package parsehttp

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dsnet/compress/brotli"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"zb.256lights.llc/luaparse/internal/astjson"
	"zb.256lights.llc/luaparse/luasyntax"
	"zombiezen.com/go/log"
)

// Relation types used in the root resource.
const (
	selfRelationType  = "self"
	parseRelationType = "parse"
)

// RequestIDHeader is the HTTP response header
// that holds the identifier the server assigned to the request.
const RequestIDHeader = "X-Request-Id"

// DefaultMaxRequestSize is the default value of [Options.MaxRequestSize].
const DefaultMaxRequestSize = 4 << 20

// DefaultChunkName is the chunk name used when a request does not provide one.
const DefaultChunkName = "request"

// Options is the set of optional parameters to [NewHandler].
type Options struct {
	// MaxRequestSize is the maximum size in bytes
	// of a decompressed request body.
	// If it is not positive, then [DefaultMaxRequestSize] is used.
	MaxRequestSize int64
}

// NewHandler returns a handler that serves the parse API.
func NewHandler(opts *Options) http.Handler {
	h := &handler{maxRequestSize: DefaultMaxRequestSize}
	if opts != nil && opts.MaxRequestSize > 0 {
		h.maxRequestSize = opts.MaxRequestSize
	}

	mux := http.NewServeMux()
	mux.Handle("/{$}", handlers.MethodHandler{
		http.MethodGet:  http.HandlerFunc(h.index),
		http.MethodHead: http.HandlerFunc(h.index),
	})
	mux.Handle("/parse", handlers.MethodHandler{
		http.MethodPost: http.HandlerFunc(h.parse),
	})
	return requestIDMiddleware{handlers.CompressHandler(mux)}
}

type handler struct {
	maxRequestSize int64
}

type indexDocument struct {
	Links map[string]*link `json:"_links"`
}

type link struct {
	HRef      string `json:"href"`
	Templated bool   `json:"templated,omitzero"`
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, &indexDocument{
		Links: map[string]*link{
			selfRelationType: {HRef: "/"},
			parseRelationType: {
				HRef:      "/parse{?chunk}",
				Templated: true,
			},
		},
	})
}

type parseResponse struct {
	AST   *astjson.Node  `json:"ast,omitzero"`
	Error *astjson.Error `json:"error,omitzero"`
}

func (h *handler) parse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chunkName := r.URL.Query().Get("chunk")
	if chunkName == "" {
		chunkName = DefaultChunkName
	}

	source, err := h.readBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.Is(err, errUnsupportedEncoding):
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	block, err := luasyntax.Parse(chunkName, bytes.NewReader(source))
	if err != nil {
		log.Debugf(ctx, "%s: parse %s: %v", requestIDFromContext(ctx), chunkName, err)
		writeJSON(ctx, w, http.StatusBadRequest, &parseResponse{
			Error: astjson.NewError(err),
		})
		return
	}
	log.Debugf(ctx, "%s: parsed %s (%d statements)", requestIDFromContext(ctx), chunkName, len(block.Stats))
	writeJSON(ctx, w, http.StatusOK, &parseResponse{
		AST: &astjson.Node{Node: block},
	})
}

// readBody reads and decompresses the request body.
// Both the compressed and decompressed sizes are bounded by h.maxRequestSize.
func (h *handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	dec, err := decodeBody(body, r.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(io.LimitReader(dec, h.maxRequestSize+1))
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	if int64(len(data)) > h.maxRequestSize {
		return nil, fmt.Errorf("read request: %w", &http.MaxBytesError{Limit: h.maxRequestSize})
	}
	return data, nil
}

var errUnsupportedEncoding = errors.New("unsupported Content-Encoding")

// acceptEncoding is the value of an [Accept-Encoding header]
// that advertises the algorithms that [decodeBody] supports.
//
// [Accept-Encoding header]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Reference/Headers/Accept-Encoding
const acceptEncoding = "br,gzip,deflate"

func decodeBody(r io.Reader, contentEncoding string) (io.ReadCloser, error) {
	switch contentEncoding {
	case "", "identity":
		return io.NopCloser(r), nil
	case "br":
		return brotli.NewReader(r, nil)
	case "gzip", "x-gzip":
		return gzip.NewReader(r)
	case "deflate":
		return flate.NewReader(r), nil
	default:
		return nil, fmt.Errorf("%w %s", errUnsupportedEncoding, contentEncoding)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	data, err := jsonv2.Marshal(v, jsonv2.Deterministic(true))
	if err != nil {
		log.Errorf(ctx, "%s: %v", requestIDFromContext(ctx), err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	data = append(data, '\n')
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write(data)
}

// requestIDMiddleware assigns a random identifier to each request
// and reports it in the [RequestIDHeader] response header.
type requestIDMiddleware struct {
	handler http.Handler
}

type requestIDContextKey struct{}

func (m requestIDMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Errorf(r.Context(), "Generate request ID: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set(RequestIDHeader, id.String())
	ctx := context.WithValue(r.Context(), requestIDContextKey{}, id)
	log.Debugf(ctx, "%v: %s %s", id, r.Method, r.URL.Path)
	m.handler.ServeHTTP(w, r.WithContext(ctx))
}

func requestIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(requestIDContextKey{}).(uuid.UUID)
	return id
}
