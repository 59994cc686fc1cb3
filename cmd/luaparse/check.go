// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"zb.256lights.llc/luaparse/internal/parsecache"
	"zb.256lights.llc/luaparse/internal/parsehttp"
	"zb.256lights.llc/luaparse/luasyntax"
	"zombiezen.com/go/log"
)

type checkOptions struct {
	paths   []string
	jobs    int
	noCache bool
	remote  string
	dir     string
	stdout  io.Writer
}

func newCheckCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "check [options] PATH [...]",
		Short: "report syntax errors in Lua files",
		Long: "Check parses each Lua file and reports any syntax errors.\n" +
			"Directories are searched recursively for .lua files,\n" +
			"skipping files excluded by the nearest " + projectConfigFileName + ".",
		DisableFlagsInUseLine: true,
		Args:                  cobra.MinimumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(checkOptions)
	c.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "check at most `n` files in parallel (default from config or number of CPUs)")
	c.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the results cache")
	c.Flags().StringVar(&opts.remote, "remote", "", "send files to the luaparse server at `url` instead of parsing locally")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.paths = args
		opts.stdout = cmd.OutOrStdout()
		return runCheck(cmd.Context(), g, opts)
	}
	return c
}

func runCheck(ctx context.Context, g *globalConfig, opts *checkOptions) error {
	dir := opts.dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	proj, err := findProjectConfig(dir)
	if err != nil {
		return err
	}
	files, err := collectLuaFiles(opts.paths, proj)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Infof(ctx, "No Lua files to check")
		return nil
	}

	chk, closeChecker, err := newChecker(g, opts)
	if err != nil {
		return err
	}
	defer closeChecker()

	jobs := opts.jobs
	if jobs <= 0 {
		jobs = g.Jobs
	}
	results := make([]parsecache.Result, len(files))
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(jobs)
	for i, file := range files {
		if grpCtx.Err() != nil {
			break
		}
		grp.Go(func() error {
			source, chunkName, err := readSource(file)
			if err != nil {
				return err
			}
			results[i], err = chk.check(grpCtx, chunkName, source)
			return err
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
			fmt.Fprintln(opts.stdout, res.Message)
		}
	}
	log.Debugf(ctx, "Checked %d files", len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}
	return nil
}

// collectLuaFiles expands the command-line paths into a list of files.
// Files named directly are always included.
// Directories are walked for files with a .lua extension
// that are not excluded by the project configuration.
func collectLuaFiles(paths []string, proj *projectConfig) ([]string, error) {
	var files []string
	for _, root := range paths {
		if root == "-" {
			files = append(files, root)
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if path != root && proj.excluded(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".lua" && d.Type().IsRegular() && !proj.excluded(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// A checker reports whether Lua source is syntactically valid.
type checker interface {
	check(ctx context.Context, chunkName string, source []byte) (parsecache.Result, error)
}

func newChecker(g *globalConfig, opts *checkOptions) (_ checker, closeFunc func(), err error) {
	remote := opts.remote
	if remote == "" {
		remote = g.Remote
	}
	if remote != "" {
		u, err := url.Parse(remote)
		if err != nil {
			return nil, nil, fmt.Errorf("--remote: %v", err)
		}
		return remoteChecker{client: &parsehttp.Client{URL: u}}, func() {}, nil
	}
	if opts.noCache || g.CacheDB == "" {
		return localChecker{}, func() {}, nil
	}

	cache, err := parsecache.Open(g.CacheDB)
	if err != nil {
		return nil, nil, err
	}
	closeFunc = func() {
		if err := cache.Close(); err != nil {
			log.Warnf(context.Background(), "%v", err)
		}
	}
	return &cachingChecker{cache: cache, checker: localChecker{}}, closeFunc, nil
}

// localChecker checks source with [luasyntax.Parse].
type localChecker struct{}

func (localChecker) check(ctx context.Context, chunkName string, source []byte) (parsecache.Result, error) {
	if _, err := luasyntax.Parse(chunkName, bytes.NewReader(source)); err != nil {
		return parsecache.Result{Message: err.Error()}, nil
	}
	return parsecache.Result{OK: true}, nil
}

// cachingChecker consults a [*parsecache.Cache]
// before falling back to another checker.
type cachingChecker struct {
	cache   *parsecache.Cache
	checker checker
}

func (cc *cachingChecker) check(ctx context.Context, chunkName string, source []byte) (parsecache.Result, error) {
	key := parsecache.Key(chunkName, source)
	if res, err := cc.cache.Get(ctx, key); err != nil {
		log.Warnf(ctx, "%v", err)
	} else if res != nil {
		log.Debugf(ctx, "%s: cached", chunkName)
		return *res, nil
	}

	res, err := cc.checker.check(ctx, chunkName, source)
	if err != nil {
		return res, err
	}
	if err := cc.cache.Put(ctx, key, res); err != nil {
		log.Warnf(ctx, "%v", err)
	}
	return res, nil
}

// remoteChecker checks source using a luaparse server.
type remoteChecker struct {
	client *parsehttp.Client
}

func (rc remoteChecker) check(ctx context.Context, chunkName string, source []byte) (parsecache.Result, error) {
	result, err := rc.client.Parse(ctx, chunkName, source)
	if err != nil {
		return parsecache.Result{}, err
	}
	if result.Error != nil {
		return parsecache.Result{Message: result.Error.Message}, nil
	}
	return parsecache.Result{OK: true}, nil
}
