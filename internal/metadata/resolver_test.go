package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/metadata/mocks"
	"github.com/vmunix/sortarr/internal/store"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCache(db)
}

func movieIdentity() media.Identity {
	return media.Identity{Kind: media.KindMovie, Title: "The Matrix", Year: 1999}
}

func TestResolve_CacheHitSkipsProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("tmdb").AnyTimes()
	// Exactly one network search across two resolutions of the same
	// identity: the second must be served from the cache.
	provider.EXPECT().Search(gomock.Any(), movieIdentity()).
		Return([]media.Candidate{{Provider: "tmdb", ExternalID: "603", Title: "The Matrix", Year: 1999}}, nil).
		Times(1)

	cache := testCache(t)
	r := NewResolver([]Provider{provider}, nil, cache, nil)

	first, err := r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_CacheSurvivesNewResolver(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("tmdb").AnyTimes()
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return([]media.Candidate{{Provider: "tmdb", ExternalID: "603", Title: "The Matrix"}}, nil).
		Times(1)

	cache := testCache(t)

	r1 := NewResolver([]Provider{provider}, nil, cache, nil)
	_, err := r1.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)

	// Fresh resolver over the same persistent cache, as after a restart.
	silent := mocks.NewMockProvider(ctrl)
	silent.EXPECT().Name().Return("tmdb").AnyTimes()
	r2 := NewResolver([]Provider{silent}, nil, cache, nil)
	got, err := r2.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "603", got[0].ExternalID)
}

func TestResolve_ProviderFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)

	broken := mocks.NewMockProvider(ctrl)
	broken.EXPECT().Name().Return("tmdb").AnyTimes()
	broken.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("rate limited"))

	working := mocks.NewMockProvider(ctrl)
	working.EXPECT().Name().Return("tvmaze").AnyTimes()
	working.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return([]media.Candidate{{Provider: "tvmaze", ExternalID: "9", Title: "The Matrix"}}, nil)

	r := NewResolver([]Provider{broken, working}, nil, testCache(t), nil)
	got, err := r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tvmaze", got[0].Provider)
	assert.Equal(t, 1, got[0].ProviderRank)
}

func TestResolve_AllProvidersFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mocks.NewMockProvider(ctrl)
	broken.EXPECT().Name().Return("tmdb").AnyTimes()
	broken.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("boom")).Times(2)

	cache := testCache(t)
	r := NewResolver([]Provider{broken}, nil, cache, nil)

	got, err := r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	assert.Empty(t, got)

	// Empty results are not cached; the next run retries the provider.
	got, err = r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_DeduplicatesAcrossProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockProvider(ctrl)
	a.EXPECT().Name().Return("tmdb").AnyTimes()
	a.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix"},
		{Provider: "tmdb", ExternalID: "603", Title: "The Matrix"},
	}, nil)

	b := mocks.NewMockProvider(ctrl)
	b.EXPECT().Name().Return("tvmaze").AnyTimes()
	b.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]media.Candidate{
		{Provider: "tvmaze", ExternalID: "603", Title: "The Matrix"},
	}, nil)

	r := NewResolver([]Provider{a, b}, nil, testCache(t), nil)
	got, err := r.Resolve(context.Background(), movieIdentity())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolve_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return("tmdb").AnyTimes()
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ media.Identity) ([]media.Candidate, error) {
			return nil, ctx.Err()
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver([]Provider{provider}, nil, testCache(t), nil)
	_, err := r.Resolve(ctx, movieIdentity())
	assert.ErrorIs(t, err, context.Canceled)
}
