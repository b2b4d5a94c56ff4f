// Copyright 2025 Patent Guard Team
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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hwany-ai/patentguard"
	"github.com/hwany-ai/patentguard/ai"
	"github.com/hwany-ai/patentguard/ai/openai"
	"github.com/hwany-ai/patentguard/cache"
	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/index"
	"github.com/hwany-ai/patentguard/retrieval"
	"github.com/hwany-ai/patentguard/storage/badger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "patentguard",
		Usage: "Prior-art retrieval and infringement-risk analysis for invention ideas",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze an invention idea against the corpus",
				ArgsUsage: "[idea text; reads stdin when omitted]",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the analysis history database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to the patent corpus JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "requester",
						Usage: "Requester identifier scoping history and cache",
						Value: "default",
					},
					&cli.BoolFlag{
						Name:  "hybrid",
						Usage: "Enable dense retrieval alongside lexical search",
					},
					&cli.StringSliceFlag{
						Name:  "code",
						Usage: "Classification code prefix filter (repeatable)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of candidates to retrieve",
						Value: retrieval.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "cache-threshold",
						Usage: "Minimum cosine similarity for a semantic cache hit",
						Value: cache.DefaultThreshold,
					},
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Chat completion service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token for the AI services",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "draft-model",
						Usage: "Model for hypothetical claim drafting",
					},
					&cli.StringFlag{
						Name:  "grade-model",
						Usage: "Model for candidate relevance grading",
					},
					&cli.StringFlag{
						Name:  "analysis-model",
						Usage: "Model for the critical analysis",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List stored analyses for a requester, newest first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the analysis history database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "requester",
						Usage: "Requester identifier",
						Value: "default",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum entries to list",
						Value: 10,
					},
				},
			},
			{
				Name:   "clear-history",
				Usage:  "Delete all stored analyses for a requester",
				Action: clearHistoryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the analysis history database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "requester",
						Usage: "Requester identifier",
						Value: "default",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Validate a corpus file and report how many documents it indexes",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to the patent corpus JSON file",
						Required: true,
					},
				},
			},
		},
	}
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	idea, err := readIdea(c)
	if err != nil {
		return err
	}

	docs, err := index.LoadCorpus(c.String("corpus"))
	if err != nil {
		return err
	}

	var configOpts []ai.ConfigOption
	if host := c.String("chat-host"); host != "" {
		configOpts = append(configOpts, ai.WithChatHost(host))
	}
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if token := c.String("token"); token != "" {
		configOpts = append(configOpts, ai.WithToken(token))
	}
	if model := c.String("draft-model"); model != "" {
		configOpts = append(configOpts, ai.WithDraftModel(model))
	}
	if model := c.String("grade-model"); model != "" {
		configOpts = append(configOpts, ai.WithGradeModel(model))
	}
	if model := c.String("analysis-model"); model != "" {
		configOpts = append(configOpts, ai.WithAnalysisModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	lexical, err := index.NewLexical()
	if err != nil {
		provider.Close()
		return fmt.Errorf("failed to build lexical index: %w", err)
	}
	if err := lexical.Add(docs...); err != nil {
		lexical.Close()
		provider.Close()
		return fmt.Errorf("failed to index corpus: %w", err)
	}

	var dense *index.DenseIndex
	if c.Bool("hybrid") {
		dense, err = buildDenseIndex(ctx, provider, docs)
		if err != nil {
			lexical.Close()
			provider.Close()
			return err
		}
	}

	engine, err := patentguard.NewEngine(c.String("db"), provider, lexical, denseOrNil(dense),
		patentguard.WithCacheOptions(cache.WithThreshold(c.Float64("cache-threshold"))),
		patentguard.WithRetrieverOptions(retrieval.WithTopK(c.Int("top-k"))),
	)
	if err != nil {
		lexical.Close()
		provider.Close()
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()
	defer lexical.Close()

	result, err := engine.Analyze(ctx, core.AnalysisRequest{
		Requester:   c.String("requester"),
		Idea:        idea,
		CodeFilters: c.StringSlice("code"),
		Hybrid:      c.Bool("hybrid"),
	})
	if err != nil {
		if result != nil {
			// Persistence failed; the analysis itself is still usable.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			return err
		}
	}

	printResult(c.App.Writer, result)
	return nil
}

func historyCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewHistoryRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer repo.Close()

	entries, err := repo.Recent(context.Background(), c.String("requester"), c.Int("limit"))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "no stored analyses")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(c.App.Writer, "%s  [%s, score %d]  %s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.RiskLevel,
			entry.SimilarityScore,
			truncate(entry.Idea, 70))
	}
	return nil
}

func clearHistoryCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewHistoryRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer repo.Close()

	removed, err := repo.Clear(context.Background(), c.String("requester"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "removed %d entries\n", removed)
	return nil
}

func indexCommand(c *cli.Context) error {
	docs, err := index.LoadCorpus(c.String("corpus"))
	if err != nil {
		return err
	}

	lexical, err := index.NewLexical()
	if err != nil {
		return fmt.Errorf("failed to build lexical index: %w", err)
	}
	defer lexical.Close()

	if err := lexical.Add(docs...); err != nil {
		return fmt.Errorf("failed to index corpus: %w", err)
	}

	count, err := lexical.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "indexed %d documents\n", count)
	return nil
}

// readIdea takes the idea from the positional argument, or from stdin when
// no argument is given.
func readIdea(c *cli.Context) (string, error) {
	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read idea from stdin: %w", err)
	}
	idea := strings.TrimSpace(string(data))
	if idea == "" {
		return "", fmt.Errorf("no idea text given: pass it as an argument or on stdin")
	}
	return idea, nil
}

func buildDenseIndex(ctx context.Context, provider ai.Provider, docs []core.Document) (*index.DenseIndex, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Abstract
	}

	vectors, err := provider.Embedder().EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d documents", len(vectors), len(docs))
	}

	dense := index.NewDense()
	for i, doc := range docs {
		if err := dense.Add(doc, vectors[i]); err != nil {
			return nil, err
		}
	}
	return dense, nil
}

// denseOrNil keeps a nil *index.DenseIndex from becoming a non-nil
// retrieval.Dense interface value.
func denseOrNil(dense *index.DenseIndex) retrieval.Dense {
	if dense == nil {
		return nil
	}
	return dense
}

func printResult(w io.Writer, result *core.AnalysisResult) {
	fmt.Fprintf(w, "Analysis of: %s\n", truncate(result.Idea, 100))
	fmt.Fprintf(w, "Analyzed at: %s\n\n", result.CreatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "Similarity: %d/100 (%s)\n", result.Verdict.Similarity.Score, result.Verdict.Infringement.RiskLevel)
	fmt.Fprintf(w, "  %s\n", result.Verdict.Similarity.Summary)
	for _, element := range result.Verdict.Similarity.CommonElements {
		fmt.Fprintf(w, "  - %s\n", element)
	}

	fmt.Fprintf(w, "\nInfringement risk: %s\n", result.Verdict.Infringement.RiskLevel)
	fmt.Fprintf(w, "  %s\n", result.Verdict.Infringement.Summary)
	for _, factor := range result.Verdict.Infringement.RiskFactors {
		fmt.Fprintf(w, "  - %s\n", factor)
	}

	fmt.Fprintf(w, "\nAvoidance: %s\n", result.Verdict.Avoidance.Summary)
	for _, strategy := range result.Verdict.Avoidance.Strategies {
		fmt.Fprintf(w, "  - %s\n", strategy)
	}

	fmt.Fprintf(w, "\nConclusion: %s\n", result.Verdict.Conclusion)

	fmt.Fprintf(w, "\nCandidates (%d, average relevance %.0f/100):\n",
		len(result.Candidates), result.AverageScore)
	for _, cand := range result.Candidates {
		if cand.Graded {
			fmt.Fprintf(w, "  %s  %.0f/100  %s\n", cand.ID, cand.GradingScore, truncate(cand.Title, 60))
		} else {
			fmt.Fprintf(w, "  %s  ungraded  %s\n", cand.ID, truncate(cand.Title, 60))
		}
	}
}

// truncate shortens s to at most max characters, counting runes so
// multi-byte text is never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
