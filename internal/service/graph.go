package service

import (
	"context"
	"sort"
	"strings"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/strata-bio/pubgraph/internal/telemetry"
)

// GraphService derives the co-authorship graph from the metadata store.
// The graph is recomputed on every request and never persisted.
type GraphService struct {
	articles ArticleStore
	lastCtx  *LastContext
}

func NewGraphService(articles ArticleStore, lastCtx *LastContext) *GraphService {
	return &GraphService{articles: articles, lastCtx: lastCtx}
}

// Build derives the graph for the given article ids. When ids is empty
// the scope falls back to the last successful answer's article set, and
// when no answer has completed yet, to every stored article. Ids that no
// longer resolve to a stored article are silently dropped.
//
// Pair generation is O(sum of authors² per article), which is fine for
// author lists in the tens.
func (s *GraphService) Build(ctx context.Context, ids []string) (*domain.AuthorGraph, error) {
	if len(ids) == 0 {
		ids = s.lastCtx.Get()
	}

	ctx, span := telemetry.StartSpan(ctx, "GraphService.Build", telemetry.SpanAttributes{
		Operation: "network",
	})
	defer span.End()

	builder := newGraphBuilder()

	if len(ids) > 0 {
		articles, err := s.articles.GetByIDs(ctx, ids)
		if err != nil {
			span.SetError(err)
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "metadata store unavailable", err)
		}
		for _, article := range articles {
			builder.add(article)
		}
	} else {
		err := s.articles.List(ctx, func(article *domain.Article) error {
			builder.add(article)
			return nil
		})
		if err != nil {
			span.SetError(err)
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator, "metadata store unavailable", err)
		}
	}

	return builder.graph(), nil
}

// graphBuilder accumulates nodes keyed by normalized author name and
// undirected edges keyed by the sorted normalized pair.
type graphBuilder struct {
	nodes map[string]string // normalized -> first-seen display name
	edges map[[2]string]*edgeAcc
}

type edgeAcc struct {
	articles []domain.EdgeArticle
	seen     map[string]bool
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{
		nodes: make(map[string]string),
		edges: make(map[[2]string]*edgeAcc),
	}
}

func (b *graphBuilder) add(article *domain.Article) {
	normalized := make([]string, 0, len(article.Authors))
	for _, name := range article.Authors {
		key := normalizeAuthor(name)
		if key == "" {
			continue
		}
		if _, ok := b.nodes[key]; !ok {
			b.nodes[key] = strings.Join(strings.Fields(name), " ")
		}
		normalized = append(normalized, key)
	}

	for i := 0; i < len(normalized); i++ {
		for j := i + 1; j < len(normalized); j++ {
			a, c := normalized[i], normalized[j]
			if a == c {
				// Same author listed twice; never a self-edge.
				continue
			}
			if a > c {
				a, c = c, a
			}

			key := [2]string{a, c}
			acc, ok := b.edges[key]
			if !ok {
				acc = &edgeAcc{seen: make(map[string]bool)}
				b.edges[key] = acc
			}
			if acc.seen[article.ID] {
				continue
			}
			acc.seen[article.ID] = true
			acc.articles = append(acc.articles, domain.EdgeArticle{
				ArticleID: article.ID,
				Title:     article.Title,
			})
		}
	}
}

// graph emits the accumulated graph with nodes and edges sorted so a
// fixed article set always produces identical output.
func (b *graphBuilder) graph() *domain.AuthorGraph {
	nodes := make([]domain.AuthorNode, 0, len(b.nodes))
	for key, name := range b.nodes {
		nodes = append(nodes, domain.AuthorNode{ID: key, Name: name})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]domain.AuthorEdge, 0, len(b.edges))
	for key, acc := range b.edges {
		articles := make([]domain.EdgeArticle, len(acc.articles))
		copy(articles, acc.articles)
		sort.Slice(articles, func(i, j int) bool { return articles[i].ArticleID < articles[j].ArticleID })
		edges = append(edges, domain.AuthorEdge{
			Source:   key[0],
			Target:   key[1],
			Articles: articles,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return &domain.AuthorGraph{Nodes: nodes, Edges: edges}
}

// normalizeAuthor produces the dedup key for an author name: trimmed,
// inner whitespace collapsed, case-folded.
func normalizeAuthor(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
