// Copyright 2025 Poiesic Systems
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/poiesic/answerit/storage/pinecone"
)

func main() {
	// Missing .env is fine; flags and real env vars still apply
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "answerit",
		Usage:  "Document question answering over a vector index",
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
				Name:   "serve",
				Usage:  "Run the question answering HTTP server",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to listen on",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "auth-token",
						Usage:   "Bearer token required on API requests",
						EnvVars: []string{"API_AUTH_TOKEN"},
					},
				}, pipelineFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Answer questions about a document in one shot",
				ArgsUsage: "QUESTION [QUESTION...]",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "Document URL (PDF)",
						Required: true,
					},
				}, pipelineFlags()...),
			},
			{
				Name:      "show-log",
				Usage:     "Print a stored run log as JSON",
				ArgsUsage: "KEY",
				Action:    showLogCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						Value:   "answerit.db",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// pipelineFlags are shared by every command that builds a Service.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "answerit.db",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat completion host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI services",
			EnvVars: []string{"OPENAI_API_KEY"},
			Value:   "none",
		},
		&cli.StringFlag{
			Name:    "pinecone-host",
			Usage:   "Pinecone index host; when set, vectors are stored in Pinecone instead of BadgerDB",
			EnvVars: []string{"PINECONE_HOST"},
		},
		&cli.StringFlag{
			Name:    "pinecone-api-key",
			Usage:   "Pinecone API key",
			EnvVars: []string{"PINECONE_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Token window size for document chunking",
			Value: 300,
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Tokens shared by consecutive chunks",
			Value: 50,
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Chunks retrieved per question",
			Value: 10,
		},
		&cli.IntFlag{
			Name:  "question-workers",
			Usage: "Questions answered in parallel",
			Value: 8,
		},
	}
}

// buildService assembles a Service and its storage from CLI flags.
// The returned cleanup releases everything in reverse order.
func buildService(c *cli.Context) (*answerit.Service, func(), error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	runLogs, err := badger.NewRunLogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create run log repository: %w", err)
	}

	var vectors storage.VectorRepository
	if host := c.String("pinecone-host"); host != "" {
		vectors, err = pinecone.NewVectorRepository(host, c.String("pinecone-api-key"))
	} else {
		vectors, err = badger.NewVectorRepository(backend)
	}
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create vector repository: %w", err)
	}

	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(chatHost),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithToken(c.String("ai-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create AI provider: %w", err)
	}

	config := answerit.DefaultConfig()
	config.ChunkSize = c.Int("chunk-size")
	config.ChunkOverlap = c.Int("chunk-overlap")
	config.TopK = c.Int("top-k")
	config.QuestionWorkers = c.Int("question-workers")

	service, err := answerit.NewService(provider, vectors, runLogs,
		answerit.WithConfig(config))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() {
		service.Release()
		provider.Close()
		vectors.Close()
		runLogs.Close()
		backend.Close()
	}
	return service, cleanup, nil
}

func askCommand(c *cli.Context) error {
	questions := c.Args().Slice()
	if len(questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}

	service, cleanup, err := buildService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	answers, location, err := service.Process(context.Background(), c.String("url"), questions)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	for i, answer := range answers {
		fmt.Printf("Q: %s\nA: %s\n\n", questions[i], answer)
	}
	if location != "" {
		fmt.Fprintf(os.Stderr, "run log: %s\n", location)
	}
	return nil
}

func showLogCommand(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("run log key is required")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	runLogs, err := badger.NewRunLogRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create run log repository: %w", err)
	}
	defer runLogs.Close()

	runLog, err := runLogs.GetRunLog(context.Background(), key)
	if err != nil {
		return fmt.Errorf("failed to load run log: %w", err)
	}

	encoded, err := json.MarshalIndent(runLog, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
