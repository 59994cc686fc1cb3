// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/spf13/cobra"
	"zb.256lights.llc/luaparse/internal/parsehttp"
	"zombiezen.com/go/log"
	"zombiezen.com/go/xcontext"
)

type serveOptions struct {
	listen         string
	maxRequestSize int64
}

func newServeCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve [options]",
		Short: "run a parse server",
		Long: "Serve runs an HTTP server that parses Lua source.\n" +
			"If the process was started by systemd socket activation,\n" +
			"serve uses the passed socket instead of --listen.",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := &serveOptions{
		listen:         "localhost:8080",
		maxRequestSize: parsehttp.DefaultMaxRequestSize,
	}
	c.Flags().StringVar(&opts.listen, "listen", opts.listen, "TCP `address` to listen on")
	c.Flags().Int64Var(&opts.maxRequestSize, "max-request-size", opts.maxRequestSize, "maximum size of a request body in `bytes`")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), opts)
	}
	return c
}

func runServe(ctx context.Context, opts *serveOptions) error {
	l, err := serveListener(ctx, opts.listen)
	if err != nil {
		return err
	}
	return serve(ctx, l, opts)
}

// serveListener returns the first socket passed by systemd
// or a new TCP listener on addr if there are none.
func serveListener(ctx context.Context, addr string) (net.Listener, error) {
	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf("socket activation: %v", err)
	}
	if len(listeners) > 0 {
		for _, extra := range listeners[1:] {
			if extra != nil {
				extra.Close()
			}
		}
		if listeners[0] == nil {
			return nil, fmt.Errorf("socket activation: first file descriptor is not a socket")
		}
		log.Infof(ctx, "Using socket from systemd")
		return listeners[0], nil
	}
	return net.Listen("tcp", addr)
}

// serve serves the parse API on l until ctx is done.
// serve closes l before returning.
func serve(ctx context.Context, l net.Listener, opts *serveOptions) error {
	srv := &http.Server{
		Handler: parsehttp.NewHandler(&parsehttp.Options{
			MaxRequestSize: opts.maxRequestSize,
		}),
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
		ReadHeaderTimeout: 30 * time.Second,
	}
	closer := xcontext.CloseWhenDone(ctx, srv)
	defer closer.Close()

	log.Infof(ctx, "Listening on http://%v/", l.Addr())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		log.Infof(ctx, "Shutting down (signal received)...")
		return nil
	}
	return err
}
