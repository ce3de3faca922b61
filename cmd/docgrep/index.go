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
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/storage"
	"github.com/phelgetar/docgrep/storage/badger"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:   "index",
		Usage:  "Compile a JSON corpus artifact into a BadgerDB store",
		Action: indexAction,
		Flags: append(corpusFlags(),
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Rebuild even when the store is newer than the artifact",
			},
		),
	}
}

func indexAction(c *cli.Context) error {
	corpusPath := c.String("corpus")
	storePath := c.String("store")
	if corpusPath == "" || storePath == "" {
		return cli.Exit("both --corpus and --store are required", 2)
	}

	stat, err := os.Stat(corpusPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading corpus artifact: %v", err), 2)
	}

	backend, err := badger.OpenBackend(storePath, false)
	if err != nil {
		return cli.Exit(fmt.Sprintf("opening corpus store: %v", err), 2)
	}
	defer backend.Close()

	repo, err := badger.NewDocumentStore(backend, storePath)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer repo.Close()

	if !c.Bool("force") {
		info, err := repo.Info(c.Context)
		switch {
		case err == nil:
			if info.SourcePath == corpusPath && !stat.ModTime().After(info.SourceModTime) {
				fmt.Fprintf(os.Stderr, "store is up to date (%d documents, built %s)\n",
					info.Documents, info.BuiltAt.Format(time.RFC3339))
				return nil
			}
		case errors.Is(err, storage.ErrNotBuilt):
		default:
			return cli.Exit(fmt.Sprintf("reading store metadata: %v", err), 2)
		}
	}

	docs, err := corpus.NewJSONSource(corpusPath).Load(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading corpus artifact: %v", err), 2)
	}

	info := storage.BuildInfo{
		SourcePath:    corpusPath,
		SourceModTime: stat.ModTime(),
		BuiltAt:       time.Now().UTC(),
	}
	if err := repo.Replace(c.Context, docs, info); err != nil {
		return cli.Exit(fmt.Sprintf("writing corpus store: %v", err), 2)
	}

	fmt.Fprintf(os.Stderr, "compiled %d documents into %s\n", len(docs), storePath)
	return nil
}
