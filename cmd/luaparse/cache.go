// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"zb.256lights.llc/luaparse/internal/parsecache"
	"zombiezen.com/go/log"
)

func newCacheCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "cache COMMAND",
		Short: "manage the check results cache",
		Args:  cobra.NoArgs,
	}
	c.AddCommand(
		newCacheInfoCommand(g),
		newCachePruneCommand(g),
	)
	return c
}

func newCacheInfoCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "info",
		Short:                 "show the location and size of the cache",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runCacheInfo(cmd.Context(), g, cmd.OutOrStdout())
	}
	return c
}

func runCacheInfo(ctx context.Context, g *globalConfig, stdout io.Writer) error {
	cache, err := openCache(g)
	if err != nil {
		return err
	}
	defer closeCache(ctx, cache)
	n, err := cache.Len(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Path:    %s\nEntries: %d\n", g.CacheDB, n)
	return nil
}

type cachePruneOptions struct {
	olderThan time.Duration
}

func newCachePruneCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "prune [options]",
		Short:                 "delete old results from the cache",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := &cachePruneOptions{
		olderThan: 30 * 24 * time.Hour,
	}
	c.Flags().DurationVar(&opts.olderThan, "older-than", opts.olderThan, "delete results last checked more than `duration` ago")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runCachePrune(cmd.Context(), g, opts)
	}
	return c
}

func runCachePrune(ctx context.Context, g *globalConfig, opts *cachePruneOptions) error {
	cache, err := openCache(g)
	if err != nil {
		return err
	}
	defer closeCache(ctx, cache)
	n, err := cache.Prune(ctx, time.Now().Add(-opts.olderThan))
	if err != nil {
		return err
	}
	log.Infof(ctx, "Deleted %d cached results", n)
	return nil
}

func openCache(g *globalConfig) (*parsecache.Cache, error) {
	if g.CacheDB == "" {
		return nil, fmt.Errorf("cache location not set (use --cache or LUAPARSE_CACHE)")
	}
	return parsecache.Open(g.CacheDB)
}

func closeCache(ctx context.Context, cache *parsecache.Cache) {
	if err := cache.Close(); err != nil {
		log.Errorf(ctx, "%v", err)
	}
}
