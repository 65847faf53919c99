//go:build integration

package browser_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/browser"
	browsercfg "github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/testutils"
)

const loadMorePage = `<html><body style="margin:0">
<div id="reviews"><article class="review"><p>First rendered review text.</p></article></div>
<button id="more" onclick="
  var a = document.createElement('article');
  a.className = 'review';
  a.innerHTML = '<p>Review appended by the load more control.</p>';
  document.getElementById('reviews').appendChild(a);
">Cargar más opiniones</button>
</body></html>`

func TestSession_RendersAndClicks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := testutils.NewFixtureServer(map[string]string{"/product": loadMorePage})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := browsercfg.NewConfig()
	cfg.Stealth = false

	session, err := browser.Open(ctx, cfg, logger.NewNoOp())
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	require.NoError(t, session.Navigate(ctx, server.URL+"/product"))

	current, err := session.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/product", current)

	require.NoError(t, session.ScrollToBottom(ctx))
	height, err := session.ScrollHeight(ctx)
	require.NoError(t, err)
	assert.Positive(t, height)

	clicked, err := session.ClickMatching(ctx, regexp.MustCompile(`(?i)cargar más`))
	require.NoError(t, err)
	assert.True(t, clicked)

	html, err := session.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "Review appended by the load more control.")

	clicked, err = session.ClickMatching(ctx, regexp.MustCompile(`(?i)siguiente`))
	require.NoError(t, err)
	assert.False(t, clicked)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close(), "closing twice is a no-op")
}
