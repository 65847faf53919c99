package navigator_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	browsercfg "github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/navigator"
)

// fakeSession serves canned HTML per URL and a scripted sequence of heights.
type fakeSession struct {
	mu sync.Mutex

	pages       map[string]string
	heights     []int
	clicksLeft  int
	navigateErr map[string]error
	panicOnHTML bool

	current   string
	heightIdx int
	scrolls   int
	clicks    int
	visited   []string
	closed    int
}

func (f *fakeSession) Navigate(_ context.Context, pageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited = append(f.visited, pageURL)
	if err := f.navigateErr[pageURL]; err != nil {
		return err
	}
	f.current = pageURL
	return nil
}

func (f *fakeSession) CurrentURL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeSession) HTML(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOnHTML {
		panic("renderer crashed")
	}
	return f.pages[f.current], nil
}

func (f *fakeSession) ScrollToBottom(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
	return nil
}

func (f *fakeSession) ScrollHeight(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.heights) == 0 {
		return 1000, nil
	}
	if f.heightIdx >= len(f.heights) {
		return f.heights[len(f.heights)-1], nil
	}
	h := f.heights[f.heightIdx]
	f.heightIdx++
	return h, nil
}

func (f *fakeSession) ClickMatching(context.Context, *regexp.Regexp) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clicksLeft == 0 {
		return false, nil
	}
	f.clicksLeft--
	f.clicks++
	return true, nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func factoryFor(s *fakeSession) navigator.SessionFactory {
	return func(context.Context) (navigator.Session, error) {
		return s, nil
	}
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newNavigator(s *fakeSession) *navigator.Navigator {
	cfg := browsercfg.NewConfig()
	cfg.MaxScrolls = 10
	return navigator.New(factoryFor(s), cfg, logger.NewNoOp(), navigator.WithSleeper(noSleep))
}

const (
	productURL = "https://shop.example.com/p/123"
	listingURL = "https://shop.example.com/p/123/reviews"
)

const productWithLink = `<html><body>
<a href="/p/123/reviews?page=2">2</a>
<a href="/p/123/reviews">Ver todas las opiniones</a>
</body></html>`

func TestNavigate_FollowsSeeAllLinkAndPumps(t *testing.T) {
	t.Parallel()

	s := &fakeSession{
		pages:   map[string]string{productURL: productWithLink, listingURL: "<html><body>listing</body></html>"},
		heights: []int{1000, 1500, 2000, 2000, 2600, 2600, 2600},
		// one click after the first stall, then a stall right after a click ends the pump
		clicksLeft: 5,
	}

	html, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)

	assert.Equal(t, "<html><body>listing</body></html>", html)
	assert.Equal(t, []string{productURL, listingURL}, s.visited)
	assert.Equal(t, 2, s.clicks)
	assert.Equal(t, 1, s.closed)
}

func TestNavigate_PumpStopsWhenNoLoadMore(t *testing.T) {
	t.Parallel()

	s := &fakeSession{
		pages:   map[string]string{productURL: productWithLink, listingURL: "<html>listing</html>"},
		heights: []int{1000, 1200, 1200},
	}

	_, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)

	assert.Equal(t, 2, s.scrolls)
	assert.Equal(t, 0, s.clicks)
}

func TestNavigate_PumpIsBounded(t *testing.T) {
	t.Parallel()

	heights := make([]int, 0, 50)
	for i := 1; i <= 50; i++ {
		heights = append(heights, i*100)
	}
	s := &fakeSession{
		pages:   map[string]string{productURL: productWithLink, listingURL: "<html>listing</html>"},
		heights: heights,
	}

	_, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)
	assert.Equal(t, 10, s.scrolls)
}

func TestNavigate_StaysOnProductPage(t *testing.T) {
	t.Parallel()

	page := `<html><body><article>inline reviews</article></body></html>`
	s := &fakeSession{pages: map[string]string{productURL: page}}

	html, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)

	assert.Equal(t, page, html)
	assert.Equal(t, []string{productURL}, s.visited)
	assert.Equal(t, 1, s.scrolls, "one scroll lets lazy widgets render")
	assert.Equal(t, 1, s.closed)
}

func TestNavigate_ListingFailureReturnsProductSnapshot(t *testing.T) {
	t.Parallel()

	s := &fakeSession{
		pages:       map[string]string{productURL: productWithLink},
		navigateErr: map[string]error{listingURL: errors.New("net::ERR_ABORTED")},
	}

	html, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)
	assert.Equal(t, productWithLink, html)
	assert.Equal(t, 1, s.closed)
}

func TestNavigate_InitialLoadFailure(t *testing.T) {
	t.Parallel()

	s := &fakeSession{navigateErr: map[string]error{productURL: errors.New("dns failure")}}

	_, err := newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))

	var navErr *navigator.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "load", navErr.Op)
	assert.Equal(t, productURL, navErr.URL)
	assert.Equal(t, 1, s.closed)
}

func TestNavigate_SessionFactoryFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("chrome not found")
	n := navigator.New(func(context.Context) (navigator.Session, error) { return nil, boom },
		browsercfg.NewConfig(), logger.NewNoOp(), navigator.WithSleeper(noSleep))

	_, err := n.Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	require.ErrorIs(t, err, boom)
}

func TestNavigate_ClosesSessionOnPanic(t *testing.T) {
	t.Parallel()

	s := &fakeSession{pages: map[string]string{productURL: "<html></html>"}, panicOnHTML: true}

	assert.Panics(t, func() {
		_, _ = newNavigator(s).Navigate(context.Background(), productURL, marketplace.For(domain.MarketplaceGeneric))
	})
	assert.Equal(t, 1, s.closed)
}

func TestNavigate_AlreadyOnListing(t *testing.T) {
	t.Parallel()

	s := &fakeSession{
		pages:   map[string]string{listingURL: "<html>listing</html>"},
		heights: []int{1000, 1000},
	}

	html, err := newNavigator(s).Navigate(context.Background(), listingURL, marketplace.For(domain.MarketplaceGeneric))
	require.NoError(t, err)
	assert.Equal(t, "<html>listing</html>", html)
	assert.Equal(t, []string{listingURL}, s.visited)
}
