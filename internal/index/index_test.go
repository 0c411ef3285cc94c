package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagechat/pagechat/internal/testutil"
)

func newFixture(t *testing.T) (*testutil.MockEmbedder, func(chunks []string) (*Index, error)) {
	t.Helper()
	g := testutil.NewGenkit(t)
	mock := testutil.NewMockEmbedder(4)
	embedder := mock.RegisterEmbedder(g)
	build := func(chunks []string) (*Index, error) {
		return Build(context.Background(), embedder, chunks)
	}
	return mock, build
}

func TestBuild(t *testing.T) {
	_, build := newFixture(t)

	ix, err := build([]string{"first chunk", "second chunk", "third chunk"})
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
}

func TestBuild_EmbedError(t *testing.T) {
	mock, build := newFixture(t)
	mock.SetError(errors.New("quota exceeded"))

	ix, err := build([]string{"first chunk"})
	require.Error(t, err)
	assert.Nil(t, ix)
	assert.Contains(t, err.Error(), "embed chunks")
}

func TestSearch_Order(t *testing.T) {
	mock, build := newFixture(t)

	mock.SetVector("goroutines are cheap", testutil.AxisVector(4, 0))
	mock.SetVector("channels synchronize", testutil.AxisVector(4, 1))
	mock.SetVector("the race detector", testutil.AxisVector(4, 2))
	mock.SetVector("how do channels work", []float32{0.1, 0.9, 0.2, 0})

	ix, err := build([]string{
		"goroutines are cheap",
		"channels synchronize",
		"the race detector",
	})
	require.NoError(t, err)

	got, err := ix.Search(context.Background(), "how do channels work", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"channels synchronize", "the race detector"}, got)
}

func TestSearch_ClampsTopK(t *testing.T) {
	_, build := newFixture(t)

	ix, err := build([]string{"only", "three", "chunks"})
	require.NoError(t, err)

	got, err := ix.Search(context.Background(), "anything", 6)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_EmptyIndex(t *testing.T) {
	mock, build := newFixture(t)

	ix, err := build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())

	before := mock.Calls()
	got, err := ix.Search(context.Background(), "anything", 6)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, before, mock.Calls(), "empty index must not embed the query")
}

func TestSearch_ZeroK(t *testing.T) {
	_, build := newFixture(t)

	ix, err := build([]string{"one chunk"})
	require.NoError(t, err)

	got, err := ix.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_EmbedError(t *testing.T) {
	mock, build := newFixture(t)

	ix, err := build([]string{"one chunk"})
	require.NoError(t, err)

	mock.SetError(errors.New("quota exceeded"))
	_, err = ix.Search(context.Background(), "anything", 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}
