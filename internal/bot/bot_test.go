package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/notify"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
	"github.com/jsseok/futseeker/services/cache"
)

// fakeMarket implements futbin.Market with canned results
type fakeMarket struct {
	results []futbin.Player
	prices  map[string]int
	err     error
}

var _ futbin.Market = (*fakeMarket)(nil)

func (f *fakeMarket) Search(ctx context.Context, query string) ([]futbin.Player, error) {
	return f.results, f.err
}

func (f *fakeMarket) Price(ctx context.Context, pageURL string) (int, error) {
	if price, ok := f.prices[pageURL]; ok {
		return price, nil
	}
	return 0, futbin.ErrPriceNotFound
}

func (f *fakeMarket) ResolveURL(path string) string {
	if strings.HasPrefix(path, "https://") {
		return path
	}
	return "https://www.futbin.com" + path
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

func player(id int64, name, version string, rating int, path string) futbin.Player {
	p := futbin.Player{ID: id, Name: name, Version: version}
	p.RatingSquare.Rating = rating
	p.Location.URL = path
	return p
}

func newTestBot(t *testing.T, market futbin.Market, notifier notify.Notifier) *Bot {
	t.Helper()
	store := watchlist.NewStore(filepath.Join(t.TempDir(), "watchlist.json"))
	require.NoError(t, store.Load())
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	return &Bot{
		market:   market,
		store:    store,
		sessions: NewSessions(cache.NewMemory(), time.Minute),
		ev:       watch.NewEvaluator(store, market, notifier, nil),
		log:      logger.ForComponent("bot"),
	}
}

func TestHandleIgnoresNonCommands(t *testing.T) {
	b := newTestBot(t, &fakeMarket{}, nil)

	assert.Nil(t, b.Handle(context.Background(), "u1", "hello there"))
	assert.Nil(t, b.Handle(context.Background(), "u1", "!"))
	assert.Nil(t, b.Handle(context.Background(), "u1", "!unknowncommand"))
}

func TestSearchStoresCappedResults(t *testing.T) {
	var results []futbin.Player
	for i := 0; i < 12; i++ {
		results = append(results, player(int64(i), fmt.Sprintf("Player %d", i), "Gold", 80, fmt.Sprintf("/p/%d", i)))
	}
	b := newTestBot(t, &fakeMarket{results: results}, nil)

	reply := b.Handle(context.Background(), "u1", "!search Player")
	require.NotNil(t, reply)
	require.NotNil(t, reply.Embed)
	// At most 10 results are kept and shown
	assert.Len(t, reply.Embed.Fields, 10)

	stored, ok := b.sessions.Get("u1")
	require.True(t, ok)
	assert.Len(t, stored, 10)
}

func TestSearchNoResults(t *testing.T) {
	b := newTestBot(t, &fakeMarket{}, nil)

	reply := b.Handle(context.Background(), "u1", "!search Nobody")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "No results")
}

func TestSelectWithoutSearch(t *testing.T) {
	b := newTestBot(t, &fakeMarket{}, nil)

	reply := b.Handle(context.Background(), "u1", "!select 1")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "No pending results")
}

func TestSelectIndexValidation(t *testing.T) {
	market := &fakeMarket{results: []futbin.Player{
		player(1, "A", "Gold", 85, "/p/1"),
		player(2, "B", "Gold", 86, "/p/2"),
	}}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search A"))

	for _, arg := range []string{"0", "-1", "3", "abc"} {
		reply := b.Handle(context.Background(), "u1", "!select "+arg)
		require.NotNil(t, reply, arg)
		// The error names the valid range
		assert.Contains(t, reply.Text, "between 1 and 2", arg)
	}
}

func TestSelectShowsPrice(t *testing.T) {
	market := &fakeMarket{
		results: []futbin.Player{player(1, "Lionel Messi", "Gold", 91, "/p/1")},
		prices:  map[string]int{"https://www.futbin.com/p/1": 1200000},
	}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search Messi"))

	reply := b.Handle(context.Background(), "u1", "!select 1")
	require.NotNil(t, reply)
	require.NotNil(t, reply.Embed)
	assert.Contains(t, reply.Embed.Fields[0].Value, "1200000")
}

func TestSelectPriceUnavailable(t *testing.T) {
	market := &fakeMarket{results: []futbin.Player{player(1, "A", "Gold", 85, "/p/1")}}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search A"))

	reply := b.Handle(context.Background(), "u1", "!select 1")
	require.NotNil(t, reply)
	require.NotNil(t, reply.Embed)
	assert.Contains(t, reply.Embed.Fields[0].Value, "price unavailable")
}

func TestAddClearsSession(t *testing.T) {
	market := &fakeMarket{results: []futbin.Player{player(1, "A", "Gold", 85, "/p/1")}}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search A"))

	reply := b.Handle(context.Background(), "u1", "!add 1 500000")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "Added A")

	items := b.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "https://www.futbin.com/p/1", items[0].URL)
	assert.Equal(t, 500000, items[0].DesiredPrice)

	// A select after a successful add must demand a fresh search
	reply = b.Handle(context.Background(), "u1", "!select 1")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "No pending results")
}

func TestAddRejectsBadPrice(t *testing.T) {
	market := &fakeMarket{results: []futbin.Player{player(1, "A", "Gold", 85, "/p/1")}}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search A"))

	for _, arg := range []string{"abc", "-5", "1.5"} {
		reply := b.Handle(context.Background(), "u1", "!add 1 "+arg)
		require.NotNil(t, reply, arg)
		assert.Contains(t, reply.Text, "non-negative", arg)
	}

	// Nothing was added and the session survives a rejected add
	assert.Zero(t, b.store.Len())
	_, ok := b.sessions.Get("u1")
	assert.True(t, ok)
}

func TestSessionsArePerRequester(t *testing.T) {
	market := &fakeMarket{results: []futbin.Player{player(1, "A", "Gold", 85, "/p/1")}}
	b := newTestBot(t, market, nil)
	require.NotNil(t, b.Handle(context.Background(), "u1", "!search A"))

	reply := b.Handle(context.Background(), "u2", "!select 1")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "No pending results")
}

func TestWatchlistCommand(t *testing.T) {
	b := newTestBot(t, &fakeMarket{}, nil)

	reply := b.Handle(context.Background(), "u1", "!watchlist")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "empty")

	require.NoError(t, b.store.Append(watchlist.Item{Name: "A", URL: "https://x/p/1", DesiredPrice: 100}))
	reply = b.Handle(context.Background(), "u1", "!watchlist")
	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "1. A - wanted <= 100 coins")
}

// TestSearchSelectAddCheckFlow walks the full workflow: search, pick the
// first result, watch it below the current price, then check again after
// the price drops.
func TestSearchSelectAddCheckFlow(t *testing.T) {
	market := &fakeMarket{
		results: []futbin.Player{
			player(1001, "Lionel Messi", "Gold", 91, "/25/player/1001/lionel-messi"),
			player(1002, "Messi Icon", "Icon", 95, "/25/player/1002/messi-icon"),
		},
		prices: map[string]int{
			"https://www.futbin.com/25/player/1001/lionel-messi": 1200000,
		},
	}
	notifier := &fakeNotifier{}
	b := newTestBot(t, market, notifier)
	ctx := context.Background()

	require.NotNil(t, b.Handle(ctx, "u1", "!search Messi"))

	reply := b.Handle(ctx, "u1", "!select 1")
	require.NotNil(t, reply.Embed)
	assert.Contains(t, reply.Embed.Fields[0].Value, "1200000")

	reply = b.Handle(ctx, "u1", "!add 1 1000000")
	assert.Contains(t, reply.Text, "Added Lionel Messi")

	// 1,200,000 > 1,000,000: no alert yet
	reply = b.Handle(ctx, "u1", "!check")
	assert.NotContains(t, reply.Text, "ALERT")
	assert.Empty(t, notifier.messages)

	// The price drops below the ceiling
	market.prices["https://www.futbin.com/25/player/1001/lionel-messi"] = 950000

	reply = b.Handle(ctx, "u1", "!check")
	assert.Contains(t, reply.Text, "ALERT")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Lionel Messi")
	assert.Contains(t, notifier.messages[0], "950000")
	assert.Contains(t, notifier.messages[0], "1000000")
}
