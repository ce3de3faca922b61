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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/phelgetar/docgrep"
	"github.com/phelgetar/docgrep/core"
	"github.com/phelgetar/docgrep/corpus"
	"github.com/phelgetar/docgrep/export"
	"github.com/phelgetar/docgrep/query"
	"github.com/phelgetar/docgrep/search"
	"github.com/phelgetar/docgrep/storage/badger"
)

// maxPrintedSnippets caps the contexts shown per document in terminal
// output.
const maxPrintedSnippets = 3

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a query against the corpus, or start an interactive session",
		ArgsUsage: "[query]",
		Action:    searchAction,
		Flags: append(corpusFlags(),
			&cli.IntFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Restrict to one dataset number (0 searches all)",
			},
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "Result order: relevance, name, or id",
				Value:   "relevance",
			},
			&cli.BoolFlag{
				Name:    "case-sensitive",
				Aliases: []string{"c"},
				Usage:   "Match case exactly",
			},
			&cli.BoolFlag{
				Name:    "whole-word",
				Aliases: []string{"w"},
				Usage:   "Match whole words only",
			},
			&cli.BoolFlag{
				Name:    "regex",
				Aliases: []string{"r"},
				Usage:   "Treat terms as regular expressions",
			},
			&cli.IntFlag{
				Name:  "min-pages",
				Usage: "Skip documents with fewer pages",
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Skip documents with more pages",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Keep only the top N results (0 keeps all)",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Write results as csv or json instead of pretty printing",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export destination file (defaults to stdout)",
			},
		),
	}
}

// corpusFlags are shared by the search and index commands.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "corpus",
			Usage: "Path to the JSON corpus artifact",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Path to a compiled BadgerDB corpus store",
		},
	}
}

func searchAction(c *cli.Context) error {
	engine, cleanup, err := openEngine(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer cleanup()

	opts, err := searchOptions(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	rawQuery := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if rawQuery == "" {
		return interactiveLoop(c.Context, engine, opts, os.Stdin, os.Stdout)
	}

	results, err := engine.Search(c.Context, rawQuery, opts)
	if err != nil {
		return searchExitError(err)
	}

	if format := c.String("export"); format != "" {
		return writeExport(c, format, results)
	}
	printResults(os.Stdout, rawQuery, results)
	return nil
}

// openEngine builds the engine from either a compiled store or a JSON
// artifact, preferring the store when both are given.
func openEngine(c *cli.Context) (*docgrep.Engine, func(), error) {
	noop := func() {}

	if storePath := c.String("store"); storePath != "" {
		backend, err := badger.OpenBackend(storePath, false)
		if err != nil {
			return nil, noop, fmt.Errorf("opening corpus store: %w", err)
		}
		repo, err := badger.NewDocumentStore(backend, storePath)
		if err != nil {
			backend.Close()
			return nil, noop, err
		}
		engine, err := docgrep.NewEngine(c.Context, repo)
		if err != nil {
			backend.Close()
			return nil, noop, err
		}
		return engine, func() {
			engine.Close()
			backend.Close()
		}, nil
	}

	corpusPath := c.String("corpus")
	if corpusPath == "" {
		return nil, noop, errors.New("either --corpus or --store is required")
	}
	engine, err := docgrep.NewEngine(c.Context, corpus.NewJSONSource(corpusPath))
	if err != nil {
		return nil, noop, err
	}
	return engine, engine.Close, nil
}

func searchOptions(c *cli.Context) (search.Options, error) {
	mode, err := core.ParseSortMode(c.String("sort"))
	if err != nil {
		return search.Options{}, fmt.Errorf("%w: %q", err, c.String("sort"))
	}
	return search.Options{
		CaseSensitive: c.Bool("case-sensitive"),
		WholeWord:     c.Bool("whole-word"),
		Regex:         c.Bool("regex"),
		Dataset:       c.Int("dataset"),
		MinPages:      c.Int("min-pages"),
		MaxPages:      c.Int("max-pages"),
		Sort:          mode,
		Limit:         c.Int("limit"),
	}, nil
}

func searchExitError(err error) error {
	var syntaxErr *query.SyntaxError
	var regexErr *query.RegexError
	if errors.As(err, &syntaxErr) || errors.As(err, &regexErr) {
		return cli.Exit(err.Error(), 1)
	}
	return cli.Exit(fmt.Sprintf("search failed: %v", err), 2)
}

func writeExport(c *cli.Context, formatName string, results []*core.SearchResult) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	var w io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("creating export file: %v", err), 2)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, format, results); err != nil {
		return cli.Exit(fmt.Sprintf("export failed: %v", err), 2)
	}
	return nil
}

// interactiveLoop reads queries from in until quit, exit, q or EOF.
func interactiveLoop(ctx context.Context, engine *docgrep.Engine, opts search.Options, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "Search> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			return nil
		}

		results, err := engine.Search(ctx, line, opts)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printResults(out, line, results)
	}
}

func printResults(w io.Writer, rawQuery string, results []*core.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No matches for %q\n", rawQuery)
		return
	}

	totalMatches := 0
	for _, res := range results {
		totalMatches += res.MatchCount
	}
	fmt.Fprintf(w, "%d documents, %d matches\n\n", len(results), totalMatches)

	for _, res := range results {
		fmt.Fprintf(w, "%s  (dataset %d, %d pages, %d matches, score %.2f)\n",
			res.Document.Filename,
			res.Document.Dataset,
			res.Document.PageCount(),
			res.MatchCount,
			res.Score)

		shown := res.Snippets
		if len(shown) > maxPrintedSnippets {
			shown = shown[:maxPrintedSnippets]
		}
		for _, sn := range shown {
			fmt.Fprintf(w, "  p.%d: %s\n", sn.Page, renderSnippet(sn))
		}
		if rest := len(res.Snippets) - len(shown); rest > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", rest)
		}
		fmt.Fprintln(w)
	}
}

// renderSnippet collapses whitespace and brackets the highlighted spans.
func renderSnippet(sn core.Snippet) string {
	var b strings.Builder
	last := 0
	for _, h := range sn.Highlights {
		if h.Start < last || h.End > len(sn.Text) {
			continue
		}
		b.WriteString(sn.Text[last:h.Start])
		b.WriteString("[")
		b.WriteString(sn.Text[h.Start:h.End])
		b.WriteString("]")
		last = h.End
	}
	b.WriteString(sn.Text[last:])

	text := strings.Join(strings.Fields(b.String()), " ")
	if sn.ClippedLeft {
		text = "..." + text
	}
	if sn.ClippedRight {
		text += "..."
	}
	return text
}
