package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/notify"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
)

// scriptedMarket implements futbin.Market with canned results
type scriptedMarket struct {
	results []futbin.Player
	prices  map[string]int
}

var _ futbin.Market = (*scriptedMarket)(nil)

func (s *scriptedMarket) Search(ctx context.Context, query string) ([]futbin.Player, error) {
	return s.results, nil
}

func (s *scriptedMarket) Price(ctx context.Context, pageURL string) (int, error) {
	if price, ok := s.prices[pageURL]; ok {
		return price, nil
	}
	return 0, futbin.ErrPriceNotFound
}

func (s *scriptedMarket) ResolveURL(path string) string {
	return "https://www.futbin.com" + path
}

func newTestMenu(t *testing.T, input string, market futbin.Market) (*Menu, *bytes.Buffer, *watchlist.Store) {
	t.Helper()
	store := watchlist.NewStore(filepath.Join(t.TempDir(), "watchlist.json"))
	require.NoError(t, store.Load())
	ev := watch.NewEvaluator(store, market, notify.Fanout{}, nil)
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, market, store, ev), out, store
}

func messiMarket() *scriptedMarket {
	p := futbin.Player{ID: 1001, Name: "Lionel Messi", Version: "Gold"}
	p.RatingSquare.Rating = 91
	p.Location.URL = "/25/player/1001/lionel-messi"
	return &scriptedMarket{
		results: []futbin.Player{p},
		prices:  map[string]int{"https://www.futbin.com/25/player/1001/lionel-messi": 1200000},
	}
}

func TestQuit(t *testing.T) {
	menu, out, _ := newTestMenu(t, "4\n", &scriptedMarket{})
	menu.Run(context.Background())
	assert.Contains(t, out.String(), "Bye.")
}

func TestRunStopsOnEOF(t *testing.T) {
	menu, _, _ := newTestMenu(t, "", &scriptedMarket{})
	// Must return instead of spinning when input ends
	menu.Run(context.Background())
}

func TestSearchAndAdd(t *testing.T) {
	input := "1\nMessi\n1\ny\n1000000\n4\n"
	menu, out, store := newTestMenu(t, input, messiMarket())
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "1. Lionel Messi (91) Gold")
	assert.Contains(t, out.String(), "1200000 coins")
	assert.Contains(t, out.String(), "Added Lionel Messi")

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Lionel Messi", items[0].Name)
	assert.Equal(t, "https://www.futbin.com/25/player/1001/lionel-messi", items[0].URL)
	assert.Equal(t, 1000000, items[0].DesiredPrice)
}

func TestSearchDeclineAdd(t *testing.T) {
	input := "1\nMessi\n1\nn\n4\n"
	menu, _, store := newTestMenu(t, input, messiMarket())
	menu.Run(context.Background())

	assert.Zero(t, store.Len())
}

func TestSearchInvalidSelectionReturnsToMenu(t *testing.T) {
	input := "1\nMessi\n7\n4\n"
	menu, out, store := newTestMenu(t, input, messiMarket())
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "between 1 and 1")
	assert.Zero(t, store.Len())
}

func TestSearchNonIntegerDesiredPriceAborts(t *testing.T) {
	input := "1\nMessi\n1\ny\ncheap\n4\n"
	menu, out, store := newTestMenu(t, input, messiMarket())
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "not added")
	assert.Zero(t, store.Len())
}

func TestSearchNoResults(t *testing.T) {
	input := "1\nNobody\n4\n"
	menu, out, _ := newTestMenu(t, input, &scriptedMarket{})
	menu.Run(context.Background())

	assert.Contains(t, out.String(), `No results for "Nobody"`)
}

func TestShowWatchlist(t *testing.T) {
	menu, out, store := newTestMenu(t, "2\n4\n", &scriptedMarket{})
	require.NoError(t, store.Append(watchlist.Item{Name: "A", URL: "https://x/p/1", DesiredPrice: 100}))
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "1. A - wanted <= 100 coins")
}

func TestCheckNow(t *testing.T) {
	market := messiMarket()
	menu, out, store := newTestMenu(t, "3\n4\n", market)
	require.NoError(t, store.Append(watchlist.Item{
		Name:         "Lionel Messi",
		URL:          "https://www.futbin.com/25/player/1001/lionel-messi",
		DesiredPrice: 2000000,
	}))
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "ALERT")
}

func TestUnknownMenuChoice(t *testing.T) {
	menu, out, _ := newTestMenu(t, "9\n4\n", &scriptedMarket{})
	menu.Run(context.Background())

	assert.Contains(t, out.String(), "Pick a number between 1 and 4.")
}
