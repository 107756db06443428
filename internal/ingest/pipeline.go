// Package ingest loads the assessment catalog, embeds it, and indexes
// it into the vector store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talentmatch/talent-match/internal/bus"
	"github.com/talentmatch/talent-match/internal/catalog"
	"github.com/talentmatch/talent-match/internal/config"
	apperrors "github.com/talentmatch/talent-match/internal/pkg/errors"
	"github.com/talentmatch/talent-match/internal/pkg/hash"
	"github.com/talentmatch/talent-match/internal/pkg/logger"
	"github.com/talentmatch/talent-match/internal/qdrant"
)

// Embedder generates embeddings for catalog texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Indexer writes points to the vector store.
type Indexer interface {
	EnsureCollection(ctx context.Context, cfg qdrant.CollectionConfig) error
	UpsertPointsBatch(ctx context.Context, collection string, points []qdrant.Point, batchSize int) error
}

// Result summarizes one ingest run.
type Result struct {
	Total    int           `json:"total"`
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Pipeline ingests assessment catalogs into the vector store.
type Pipeline struct {
	embedder   Embedder
	indexer    Indexer
	events     bus.Bus
	collection string
	workers    int
	batchSize  int
	logger     *logger.Logger
}

// NewPipeline creates an ingest pipeline.
// events may be nil to skip lifecycle notifications.
func NewPipeline(embedder Embedder, indexer Indexer, events bus.Bus, collection string, cfg config.IngestConfig, log *logger.Logger) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	if log == nil {
		log = logger.Default()
	}

	return &Pipeline{
		embedder:   embedder,
		indexer:    indexer,
		events:     events,
		collection: collection,
		workers:    workers,
		batchSize:  batchSize,
		logger:     log.WithComponent("ingest"),
	}
}

// Run ingests a catalog CSV file.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	assessments, err := catalog.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return p.RunAssessments(ctx, assessments)
}

// RunAssessments embeds and indexes the given assessments.
func (p *Pipeline) RunAssessments(ctx context.Context, assessments []catalog.Assessment) (*Result, error) {
	start := time.Now()

	if len(assessments) == 0 {
		return nil, apperrors.IngestError("catalog is empty", nil)
	}

	p.publish(ctx, bus.TopicIngestStarted, map[string]any{
		"total": len(assessments),
	})

	result := &Result{Total: len(assessments)}

	// Nameless rows cannot be identified or evaluated against
	valid := make([]catalog.Assessment, 0, len(assessments))
	for _, a := range assessments {
		if a.Name == "" {
			result.Skipped++
			continue
		}
		valid = append(valid, a)
	}

	if len(valid) == 0 {
		err := apperrors.IngestError("no assessments with names in catalog", nil)
		p.publish(ctx, bus.TopicIngestFailed, map[string]any{"error": err.Error()})
		return nil, err
	}

	vecCfg := qdrant.DefaultCollectionConfig(p.collection)
	if dim := p.embedder.Dimensions(); dim > 0 {
		vecCfg.VectorSize = uint64(dim)
	}
	if err := p.indexer.EnsureCollection(ctx, vecCfg); err != nil {
		p.publish(ctx, bus.TopicIngestFailed, map[string]any{"error": err.Error()})
		return nil, apperrors.IngestError("failed to prepare collection", err)
	}

	points, err := p.embedAll(ctx, valid)
	if err != nil {
		p.publish(ctx, bus.TopicIngestFailed, map[string]any{"error": err.Error()})
		return nil, err
	}

	if err := p.indexer.UpsertPointsBatch(ctx, p.collection, points, p.batchSize); err != nil {
		p.publish(ctx, bus.TopicIngestFailed, map[string]any{"error": err.Error()})
		return nil, apperrors.IngestError("failed to index points", err)
	}

	result.Indexed = len(points)
	result.Duration = time.Since(start)

	p.logger.Info("catalog ingested",
		"total", result.Total,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"duration", result.Duration)

	p.publish(ctx, bus.TopicIngestCompleted, map[string]any{
		"indexed":  result.Indexed,
		"skipped":  result.Skipped,
		"duration": result.Duration.String(),
	})

	return result, nil
}

// embedAll embeds assessments in parallel batches, preserving order.
func (p *Pipeline) embedAll(ctx context.Context, assessments []catalog.Assessment) ([]qdrant.Point, error) {
	points := make([]qdrant.Point, len(assessments))
	indexedAt := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for start := 0; start < len(assessments); start += p.batchSize {
		end := start + p.batchSize
		if end > len(assessments) {
			end = len(assessments)
		}

		g.Go(func() error {
			batch := assessments[start:end]

			texts := make([]string, len(batch))
			for i, a := range batch {
				texts[i] = a.CombinedText()
			}

			vectors, err := p.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return apperrors.IngestError(
					fmt.Sprintf("embedding batch %d-%d failed", start, end), err)
			}

			for i, a := range batch {
				points[start+i] = qdrant.Point{
					ID:     hash.PointID(a.Name),
					Vector: vectors[i],
					Payload: qdrant.Payload{
						Name:             a.Name,
						Category:         a.Category,
						Description:      a.Description,
						JobLevels:        a.JobLevels,
						Languages:        a.Languages,
						AssessmentLength: a.AssessmentLength,
						RemoteTesting:    a.RemoteTesting,
						AdaptiveIRT:      a.AdaptiveIRT,
						TestTypes:        a.TestTypes,
						URL:              a.URL,
						IndexedAt:        indexedAt,
					},
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return points, nil
}

// publish sends a lifecycle event, ignoring bus errors.
func (p *Pipeline) publish(ctx context.Context, topic string, payload map[string]any) {
	if p.events == nil {
		return
	}

	event := bus.Event{
		ID:        hash.SHA256Short([]byte(fmt.Sprintf("%s-%d", topic, time.Now().UnixNano())), 16),
		Type:      topic,
		Source:    "ingest",
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	if err := p.events.Publish(ctx, topic, event); err != nil {
		p.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
