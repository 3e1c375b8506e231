package g2mfeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewBuildAvailable(t *testing.T) {
	srv := feedServer(t)
	ctx := context.Background()

	t.Run("NewerBuildInFeed", func(t *testing.T) {
		r := newTestResolver(t, srv.URL+"/config.json", NopReporter())
		newer, result, err := r.IsNewBuildAvailable(ctx, "1000")
		require.NoError(t, err)
		assert.True(t, newer)
		assert.Equal(t, "1050", result.Build)
	})

	t.Run("AlreadyOnLatest", func(t *testing.T) {
		r := newTestResolver(t, srv.URL+"/config.json", NopReporter())
		newer, result, err := r.IsNewBuildAvailable(ctx, "1050")
		require.NoError(t, err)
		assert.False(t, newer)
		assert.Equal(t, "1050", result.Build)
	})

	t.Run("AheadOfFeed", func(t *testing.T) {
		r := newTestResolver(t, srv.URL+"/config.json", NopReporter())
		newer, _, err := r.IsNewBuildAvailable(ctx, "2000")
		require.NoError(t, err)
		assert.False(t, newer)
	})

	t.Run("UnparseableCurrentBuild", func(t *testing.T) {
		r := newTestResolver(t, srv.URL+"/config.json", NopReporter())
		_, _, err := r.IsNewBuildAvailable(ctx, "not a build")
		assert.Error(t, err)
	})

	t.Run("FeedErrorsPropagate", func(t *testing.T) {
		r := newTestResolver(t, srv.URL+"/garbage.json", NopReporter())
		_, _, err := r.IsNewBuildAvailable(ctx, "1000")
		assert.ErrorIs(t, err, ErrInvalidFeedFormat)
	})
}
