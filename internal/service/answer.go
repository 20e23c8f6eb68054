package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/strata-bio/pubgraph/internal/openai"
	"github.com/strata-bio/pubgraph/internal/telemetry"
)

// AnswerConfig controls retrieval-augmented answering. TopK is the fixed
// number of chunks retrieved per question.
type AnswerConfig struct {
	TopK int
}

func DefaultAnswerConfig() AnswerConfig {
	return AnswerConfig{TopK: 5}
}

// AnswerService answers questions by grounding the generation service in
// chunks retrieved from the vector index. On every successful answer it
// overwrites the shared last-context cell with the article ids the
// answer was grounded in; failed answers leave the cell untouched.
type AnswerService struct {
	embedder  Embedder
	index     ChunkIndex
	articles  ArticleStore
	completer Completer
	lastCtx   *LastContext
	cfg       AnswerConfig
}

func NewAnswerService(embedder Embedder, index ChunkIndex, articles ArticleStore, completer Completer, lastCtx *LastContext, cfg AnswerConfig) *AnswerService {
	if cfg.TopK < 0 {
		cfg.TopK = 0
	}
	return &AnswerService{
		embedder:  embedder,
		index:     index,
		articles:  articles,
		completer: completer,
		lastCtx:   lastCtx,
		cfg:       cfg,
	}
}

// Ask runs the full retrieval-augmented pipeline for one question. Any
// collaborator failure aborts this request rather than returning a
// misleadingly empty answer.
func (s *AnswerService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, span := telemetry.StartSpan(ctx, "AnswerService.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	queryVec, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "embedding model unavailable", err)
	}

	matches, err := s.index.Search(ctx, queryVec, s.cfg.TopK)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "vector index unavailable", err)
	}

	retrieved, articleIDs, err := s.resolveMatches(ctx, matches)
	if err != nil {
		return nil, err
	}

	answerText, err := s.generate(ctx, buildPrompt(question, retrieved))
	if err != nil {
		span.SetError(err)
		// Preserve the previous last-context set so a failed retry does
		// not silently clear graph scoping.
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "generation service unavailable", err)
	}

	s.lastCtx.Set(articleIDs)

	return &domain.Answer{
		Question:   question,
		Text:       answerText,
		Context:    retrieved,
		ArticleIDs: articleIDs,
	}, nil
}

// resolveMatches attaches article metadata to each retrieved chunk.
// Chunks whose article has been deleted since indexing are dropped from
// the result rather than failing the query. Article ids are returned
// unique, in rank order of first appearance.
func (s *AnswerService) resolveMatches(ctx context.Context, matches []domain.ChunkMatch) ([]domain.RetrievedChunk, []string, error) {
	ids := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m.ArticleID] {
			seen[m.ArticleID] = true
			ids = append(ids, m.ArticleID)
		}
	}

	articles, err := s.articles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "metadata store unavailable", err)
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(matches))
	articleIDs := make([]string, 0, len(ids))
	included := make(map[string]bool, len(ids))
	for _, m := range matches {
		article, ok := articles[m.ArticleID]
		if !ok {
			continue
		}
		retrieved = append(retrieved, domain.RetrievedChunk{
			ChunkID:   m.ChunkID,
			ArticleID: m.ArticleID,
			Title:     article.Title,
			Authors:   article.Authors,
			Content:   m.Content,
			Distance:  m.Distance,
		})
		if !included[m.ArticleID] {
			included[m.ArticleID] = true
			articleIDs = append(articleIDs, m.ArticleID)
		}
	}
	return retrieved, articleIDs, nil
}

// generate calls the completion service with at most one retry on
// transient failures. Transient and permanent failures are logged
// distinctly.
func (s *AnswerService) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.completer.Complete(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if !openai.IsTransient(err) {
		log.Printf("ask: generation failed permanently: %v", err)
		return "", err
	}

	log.Printf("ask: generation failed transiently, retrying once: %v", err)
	text, err = s.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("ask: generation retry failed: %v", err)
		return "", err
	}
	return text, nil
}

// buildPrompt assembles the question and the ranked context chunks
// (closest first) into a single generation prompt.
func buildPrompt(question string, retrieved []domain.RetrievedChunk) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant specialized in scientific literature.\n")
	b.WriteString("Based on the following context, answer the question comprehensively and accurately.\n")
	b.WriteString("If the answer is not available in the context, state that clearly.\n\n")
	b.WriteString("Context:\n")

	if len(retrieved) == 0 {
		b.WriteString("No relevant context found.\n")
	}
	for _, chunk := range retrieved {
		fmt.Fprintf(&b, "--- Article: %s (ID: %s) ---\n%s\n\n", chunk.Title, chunk.ArticleID, chunk.Content)
	}

	fmt.Fprintf(&b, "Question: %s\n\nAnswer:", question)
	return b.String()
}
