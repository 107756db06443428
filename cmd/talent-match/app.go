package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/embedding"
	"github.com/talentmatch/talent-match/internal/pkg/logger"
	"github.com/talentmatch/talent-match/internal/qdrant"
	"github.com/talentmatch/talent-match/internal/recommend"
)

// app bundles the wired components shared by subcommands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	qdrant   *qdrant.Client
	embedder *embedding.Embedder
	service  *recommend.Service
}

// newApp loads configuration and wires the retrieval stack.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Log.Format)

	client, err := qdrant.NewClient(qdrant.ClientConfig{
		Host:             cfg.Qdrant.Host,
		Port:             cfg.Qdrant.Port,
		APIKey:           cfg.Qdrant.APIKey,
		UseTLS:           cfg.Qdrant.UseTLS,
		CollectionPrefix: cfg.Qdrant.CollectionPrefix,
		Timeout:          cfg.Qdrant.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	cache, err := embedding.NewCache(cfg.Cache)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}

	embedder := embedding.NewEmbedder(cfg.OpenAI, cache, log)

	var rewriter recommend.QueryRewriter
	if cfg.Recommend.EnableRewrite {
		rewriter = recommend.NewRewriter(cfg.OpenAI, log)
	}

	service := recommend.NewService(embedder, client, rewriter, cfg.Qdrant.Collection, cfg.Recommend, log)

	return &app{
		cfg:      cfg,
		log:      log,
		qdrant:   client,
		embedder: embedder,
		service:  service,
	}, nil
}

// close releases held connections.
func (a *app) close() {
	if err := a.qdrant.Close(); err != nil {
		a.log.Warn("closing qdrant client", "error", err)
	}
}
