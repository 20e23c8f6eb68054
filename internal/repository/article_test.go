//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/strata-bio/pubgraph/internal/domain"
	"github.com/strata-bio/pubgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredArticle(id string) *domain.Article {
	published := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Article{
		ID:          id,
		Title:       "Title " + id,
		Authors:     []string{"Smith JA", "Jones RB"},
		Abstract:    "Abstract for " + id,
		PublishedOn: &published,
		Source:      "pubmed",
	}
}

func TestArticleRepository_PutAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	a := newStoredArticle("111")
	require.NoError(t, repo.Put(ctx, a))

	got, err := repo.GetByID(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Authors, got.Authors)
	assert.Equal(t, a.Abstract, got.Abstract)
	require.NotNil(t, got.PublishedOn)
	assert.Equal(t, *a.PublishedOn, *got.PublishedOn)
	assert.Equal(t, "pubmed", got.Source)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestArticleRepository_PutUpsertsByID(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	require.NoError(t, repo.Put(ctx, newStoredArticle("111")))

	updated := newStoredArticle("111")
	updated.Title = "Corrected title"
	updated.Authors = []string{"Smith JA"}
	require.NoError(t, repo.Put(ctx, updated))

	got, err := repo.GetByID(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Corrected title", got.Title)
	assert.Equal(t, []string{"Smith JA"}, got.Authors)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestArticleRepository_PutValidates(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	err := repo.Put(ctx, &domain.Article{ID: "  "})
	assert.Error(t, err)
}

func TestArticleRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestArticleRepository_GetByIDs_OmitsMissing(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	require.NoError(t, repo.Put(ctx, newStoredArticle("111")))
	require.NoError(t, repo.Put(ctx, newStoredArticle("222")))

	got, err := repo.GetByIDs(ctx, []string{"111", "222", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "111")
	assert.Contains(t, got, "222")
	assert.NotContains(t, got, "missing")
}

func TestArticleRepository_List(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewArticleRepository(pool)

	require.NoError(t, repo.Put(ctx, newStoredArticle("111")))
	require.NoError(t, repo.Put(ctx, newStoredArticle("222")))

	var seen []string
	err := repo.List(ctx, func(a *domain.Article) error {
		seen = append(seen, a.ID)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"111", "222"}, seen)
}

func TestArticleRepository_ClearCascadesToChunks(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	articleRepo := NewArticleRepository(pool)
	chunkRepo := NewChunkIndexRepository(pool)

	require.NoError(t, articleRepo.Put(ctx, newStoredArticle("111")))
	require.NoError(t, chunkRepo.ReplaceForArticle(ctx, "111", []domain.Chunk{
		{ID: "111:0", ArticleID: "111", ChunkIndex: 0, Title: "T", Content: "c", Embedding: unitVector(0)},
	}))

	require.NoError(t, articleRepo.Clear(ctx))

	count, err := articleRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	chunkCount, err := chunkRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, chunkCount)
}
