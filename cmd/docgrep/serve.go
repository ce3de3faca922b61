// Copyright 2026 Phelgetar Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/phelgetar/docgrep"
	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/server"
	"github.com/phelgetar/docgrep/storage/badger"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP search service",
		Action: serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Listen address (overrides the config file)",
			},
			&cli.StringFlag{
				Name:  "corpus",
				Usage: "Path to the JSON corpus artifact (overrides the config file)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to a compiled BadgerDB corpus store (overrides the config file)",
			},
		},
	}
}

func serveAction(c *cli.Context) error {
	cfg := server.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := server.LoadConfig(path)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		cfg = loaded
	}
	if v := c.String("listen"); v != "" {
		cfg.Listen = v
	}
	if v := c.String("corpus"); v != "" {
		cfg.CorpusPath = v
	}
	if v := c.String("store"); v != "" {
		cfg.StorePath = v
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engineOpts := []docgrep.Option{}
	if cfg.SnippetWindow > 0 {
		engineOpts = append(engineOpts, docgrep.WithSnippetWindow(cfg.SnippetWindow))
	}
	if cfg.PoolSize > 0 {
		engineOpts = append(engineOpts, docgrep.WithPoolSize(cfg.PoolSize))
	}

	var engine *docgrep.Engine
	if cfg.StorePath != "" {
		backend, err := badger.OpenBackend(cfg.StorePath, false)
		if err != nil {
			return cli.Exit(fmt.Sprintf("opening corpus store: %v", err), 2)
		}
		defer backend.Close()

		repo, err := badger.NewDocumentStore(backend, cfg.StorePath)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		engine, err = docgrep.NewEngine(ctx, repo, engineOpts...)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	} else {
		var err error
		engine, err = docgrep.NewEngine(ctx, corpus.NewJSONSource(cfg.CorpusPath), engineOpts...)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	defer engine.Close()

	srv, err := server.New(engine, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.Exit(err.Error(), 2)
	}
	return nil
}
