package recommend

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/pkg/logger"
)

const rewriteSystemPrompt = "You are a helpful assistant that extracts key skills and requirements from job descriptions."

const rewriteUserPrompt = `Extract the key skills, competencies, and requirements from this job description or query:

"%s"

Format them as a detailed list that can be used to search for relevant assessments.
Focus on technical skills, personality traits, competencies, and cognitive abilities.`

// ChatAPI is the subset of the OpenAI client used for query rewriting.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Rewriter expands a job description into a skills-focused search query
// using a chat model. A rewrite failure falls back to the raw query so
// recommendation never depends on chat availability.
type Rewriter struct {
	api    ChatAPI
	model  string
	logger *logger.Logger
}

// NewRewriter creates a query rewriter from configuration.
func NewRewriter(cfg config.OpenAIConfig, log *logger.Logger) *Rewriter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return newRewriter(openai.NewClientWithConfig(clientCfg), cfg, log)
}

func newRewriter(api ChatAPI, cfg config.OpenAIConfig, log *logger.Logger) *Rewriter {
	model := cfg.ChatModel
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	if log == nil {
		log = logger.Default()
	}

	return &Rewriter{
		api:    api,
		model:  model,
		logger: log.WithComponent("rewriter"),
	}
}

// Rewrite returns the original query combined with extracted skills.
// On any API error the raw query is returned unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, query string) string {
	resp, err := r.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rewriteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(rewriteUserPrompt, query)},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		r.logger.Warn("query rewrite failed, using raw query", "error", err)
		return query
	}

	if len(resp.Choices) == 0 {
		r.logger.Warn("query rewrite returned no choices, using raw query")
		return query
	}

	enhanced := strings.TrimSpace(resp.Choices[0].Message.Content)
	if enhanced == "" {
		return query
	}

	// Combine with the original query for better recall
	return query + " " + enhanced
}
