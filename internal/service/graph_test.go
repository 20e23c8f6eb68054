package service

import (
	"context"
	"testing"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGraphBuild_CoauthorPairs(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("GetByIDs", mock.Anything, []string{"1", "2"}).Return(map[string]*domain.Article{
		"1": {ID: "1", Title: "Paper One", Authors: []string{"Alice A", "Bob B", "Carol C"}},
		"2": {ID: "2", Title: "Paper Two", Authors: []string{"Alice A", "Bob B"}},
	}, nil)

	graph, err := svc.Build(context.Background(), []string{"1", "2"})

	require.NoError(t, err)
	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "alice a", graph.Nodes[0].ID)
	assert.Equal(t, "Alice A", graph.Nodes[0].Name)

	// alice-bob, alice-carol, bob-carol
	require.Len(t, graph.Edges, 3)

	ab := graph.Edges[0]
	assert.Equal(t, "alice a", ab.Source)
	assert.Equal(t, "bob b", ab.Target)
	require.Len(t, ab.Articles, 2)
	assert.Equal(t, "1", ab.Articles[0].ArticleID)
	assert.Equal(t, "2", ab.Articles[1].ArticleID)

	ac := graph.Edges[1]
	assert.Equal(t, "carol c", ac.Target)
	assert.Len(t, ac.Articles, 1)
}

func TestGraphBuild_Deterministic(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	stored := map[string]*domain.Article{
		"1": {ID: "1", Title: "P1", Authors: []string{"Zed Z", "Amy A", "Mid M"}},
	}
	articles.On("GetByIDs", mock.Anything, []string{"1"}).Return(stored, nil)

	first, err := svc.Build(context.Background(), []string{"1"})
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), []string{"1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGraphBuild_SingleAuthorNoEdges(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("GetByIDs", mock.Anything, []string{"1"}).Return(map[string]*domain.Article{
		"1": {ID: "1", Title: "Solo", Authors: []string{"Alice A"}},
	}, nil)

	graph, err := svc.Build(context.Background(), []string{"1"})

	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
}

func TestGraphBuild_DuplicateAuthorNoSelfEdge(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("GetByIDs", mock.Anything, []string{"1"}).Return(map[string]*domain.Article{
		"1": {ID: "1", Title: "Dup", Authors: []string{"Alice A", "alice  a"}},
	}, nil)

	graph, err := svc.Build(context.Background(), []string{"1"})

	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
}

func TestGraphBuild_StaleIDsDropped(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("GetByIDs", mock.Anything, []string{"1", "gone"}).Return(map[string]*domain.Article{
		"1": {ID: "1", Title: "Live", Authors: []string{"Alice A", "Bob B"}},
	}, nil)

	graph, err := svc.Build(context.Background(), []string{"1", "gone"})

	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Edges, 1)
}

func TestGraphBuild_FallsBackToLastAnswerScope(t *testing.T) {
	articles := new(MockArticleStore)
	lastCtx := NewLastContext()
	lastCtx.Set([]string{"7"})
	svc := NewGraphService(articles, lastCtx)

	articles.On("GetByIDs", mock.Anything, []string{"7"}).Return(map[string]*domain.Article{
		"7": {ID: "7", Title: "Scoped", Authors: []string{"Alice A", "Bob B"}},
	}, nil)

	graph, err := svc.Build(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, graph.Edges, 1)
	articles.AssertCalled(t, "GetByIDs", mock.Anything, []string{"7"})
}

func TestGraphBuild_NoScopeWalksAllArticles(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("List", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		fn := args.Get(1).(func(*domain.Article) error)
		fn(&domain.Article{ID: "1", Title: "A", Authors: []string{"Alice A", "Bob B"}})
		fn(&domain.Article{ID: "2", Title: "B", Authors: []string{"Bob B", "Carol C"}})
	}).Return(nil)

	graph, err := svc.Build(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 3)
	assert.Len(t, graph.Edges, 2)
	articles.AssertNotCalled(t, "GetByIDs")
}

func TestGraphBuild_EmptyStore(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("List", mock.Anything, mock.Anything).Return(nil)

	graph, err := svc.Build(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestGraphBuild_StoreFailure(t *testing.T) {
	articles := new(MockArticleStore)
	svc := NewGraphService(articles, NewLastContext())

	articles.On("GetByIDs", mock.Anything, []string{"1"}).Return(nil, assert.AnError)

	_, err := svc.Build(context.Background(), []string{"1"})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeCollaborator, domainErr.Code)
}
