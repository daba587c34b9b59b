package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

func resolved(t *testing.T, f *chapterFixture, key domain.ChapterKey, n int) *domain.ChapterRecord {
	t.Helper()
	f.primary.verses = sourceVerses(n)
	record, err := f.service.Resolve(context.Background(), key)
	require.NoError(t, err)
	return record
}

func TestRender_ResolveThenRender(t *testing.T) {
	f := newChapterFixture(t)
	ctx := context.Background()
	key := domain.NewChapterKey("x", 1)
	record := resolved(t, f, key, 3)

	rendered, err := f.service.Render(ctx, *record)

	require.NoError(t, err)
	require.Len(t, rendered.Verses, 3)
	for i, v := range rendered.Verses {
		assert.Equal(t, record.Verses[i].Number, v.Number)
		assert.Equal(t, record.Verses[i].Primary, v.Primary)
		assert.Equal(t, "masri "+v.Primary, v.Secondary)
	}
	assert.True(t, rendered.IsRendered())
	assert.False(t, rendered.Timestamp.Before(record.Timestamp))

	cached, ok := f.cache.Get(ctx, key)
	require.True(t, ok)
	if diff := cmp.Diff(rendered.Verses, cached.Verses); diff != "" {
		t.Errorf("cache not updated (-rendered +cached):\n%s", diff)
	}
	assert.Contains(t, f.events.types(), domain.EventRenderDone)
}

func TestRender_KeepsPrimaryFromInput(t *testing.T) {
	f := newChapterFixture(t)
	record := resolved(t, f, domain.NewChapterKey("x", 1), 2)
	f.generative.renderFn = func(verses []domain.Verse) ([]domain.Verse, error) {
		out, _ := renderAll(verses)
		for i := range out {
			out[i].Primary = "rewritten"
		}
		return out, nil
	}

	rendered, err := f.service.Render(context.Background(), *record)

	require.NoError(t, err)
	for i, v := range rendered.Verses {
		assert.Equal(t, record.Verses[i].Primary, v.Primary)
	}
}

func TestRender_ContractViolationsLeaveCacheUntouched(t *testing.T) {
	tests := []struct {
		name   string
		render func(verses []domain.Verse) ([]domain.Verse, error)
	}{
		{
			name: "fewer verses",
			render: func(verses []domain.Verse) ([]domain.Verse, error) {
				out, _ := renderAll(verses)
				return out[:len(out)-1], nil
			},
		},
		{
			name: "reordered",
			render: func(verses []domain.Verse) ([]domain.Verse, error) {
				out, _ := renderAll(verses)
				out[0], out[1] = out[1], out[0]
				return out, nil
			},
		},
		{
			name: "empty rendering",
			render: func(verses []domain.Verse) ([]domain.Verse, error) {
				out, _ := renderAll(verses)
				out[1].Secondary = " "
				return out, nil
			},
		},
		{
			name: "provider error",
			render: func([]domain.Verse) ([]domain.Verse, error) {
				return nil, domain.NewProviderError("generative", "render", errTransport)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChapterFixture(t)
			ctx := context.Background()
			key := domain.NewChapterKey("x", 2)
			record := resolved(t, f, key, 3)
			f.generative.renderFn = tt.render

			rendered, err := f.service.Render(ctx, *record)

			assert.Nil(t, rendered)
			var rerr *domain.RenderError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, key, rerr.Key)

			cached, ok := f.cache.Get(ctx, key)
			require.True(t, ok)
			assert.False(t, cached.IsRendered())
			assert.Contains(t, f.events.types(), domain.EventRenderFailed)
		})
	}
}

func TestRender_IsRepeatable(t *testing.T) {
	f := newChapterFixture(t)
	ctx := context.Background()
	record := resolved(t, f, domain.NewChapterKey("x", 1), 2)

	first, err := f.service.Render(ctx, *record)
	require.NoError(t, err)

	f.generative.renderFn = func(verses []domain.Verse) ([]domain.Verse, error) {
		out := make([]domain.Verse, len(verses))
		for i, v := range verses {
			out[i] = domain.Verse{Number: v.Number, Secondary: "again"}
		}
		return out, nil
	}
	second, err := f.service.Render(ctx, *first)

	require.NoError(t, err)
	for i, v := range second.Verses {
		assert.Equal(t, "again", v.Secondary)
		assert.Equal(t, record.Verses[i].Primary, v.Primary)
	}
}

func TestRender_EmptyRecord(t *testing.T) {
	f := newChapterFixture(t)

	_, err := f.service.Render(context.Background(), domain.ChapterRecord{WorkID: "x", Chapter: 1})

	var rerr *domain.RenderError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.generative.renderCalls)
}

func TestRender_WithoutGenerativeProvider(t *testing.T) {
	cat := newTestCatalog(t)
	service := NewChapterService(NewChapterCache(newMockKV()), cat, nil, nil)
	record := domain.ChapterRecord{WorkID: "x", Chapter: 1, Verses: []domain.Verse{{Number: 1, Primary: "a"}}}

	_, err := service.Render(context.Background(), record)

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestRenderKey(t *testing.T) {
	f := newChapterFixture(t)
	ctx := context.Background()
	key := domain.NewChapterKey("x", 3)

	_, err := f.service.RenderKey(ctx, key)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, f.primary.callCount(), "rendering never fetches primary text")

	resolved(t, f, key, 2)
	rendered, err := f.service.RenderKey(ctx, key)

	require.NoError(t, err)
	assert.True(t, rendered.IsRendered())
}
