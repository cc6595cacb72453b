package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
)

// Menu is the terminal front end: a numbered main menu looping until the
// user quits. Invalid input at any prompt returns to the main menu instead
// of re-prompting.
type Menu struct {
	in     *bufio.Scanner
	out    io.Writer
	market futbin.Market
	store  *watchlist.Store
	ev     *watch.Evaluator
	log    *logger.Logger
}

// New creates a menu reading from in and writing to out
func New(in io.Reader, out io.Writer, market futbin.Market, store *watchlist.Store, ev *watch.Evaluator) *Menu {
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		market: market,
		store:  store,
		ev:     ev,
		log:    logger.ForComponent("cli"),
	}
}

// Run loops on the main menu until the user quits or input ends
func (m *Menu) Run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "1) Search players")
		fmt.Fprintln(m.out, "2) Show watchlist")
		fmt.Fprintln(m.out, "3) Check prices now")
		fmt.Fprintln(m.out, "4) Quit")
		fmt.Fprint(m.out, "> ")

		line, ok := m.readLine()
		if !ok {
			return
		}

		switch line {
		case "1":
			m.search(ctx)
		case "2":
			m.showWatchlist()
		case "3":
			m.checkNow(ctx)
		case "4", "q", "quit":
			fmt.Fprintln(m.out, "Bye.")
			return
		default:
			fmt.Fprintln(m.out, "Pick a number between 1 and 4.")
		}
	}
}

func (m *Menu) search(ctx context.Context) {
	fmt.Fprint(m.out, "Player name: ")
	query, ok := m.readLine()
	if !ok {
		return
	}
	if query == "" {
		fmt.Fprintln(m.out, "Nothing to search for.")
		return
	}

	players, err := m.market.Search(ctx, query)
	if err != nil {
		m.log.Warn().Err(err).Str("query", query).Msg("Search failed")
		fmt.Fprintln(m.out, "Search failed, try again later.")
		return
	}
	if len(players) == 0 {
		fmt.Fprintf(m.out, "No results for %q.\n", query)
		return
	}

	for i, p := range players {
		fmt.Fprintf(m.out, "%d. %s (%d) %s\n", i+1, p.Name, p.Rating(), p.Version)
	}

	fmt.Fprint(m.out, "Number to check: ")
	line, ok := m.readLine()
	if !ok {
		return
	}
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(players) {
		fmt.Fprintf(m.out, "Invalid selection: choose a number between 1 and %d.\n", len(players))
		return
	}

	player := players[index-1]
	pageURL := m.market.ResolveURL(player.PagePath())

	price, err := m.market.Price(ctx, pageURL)
	if err != nil {
		m.log.Warn().Err(err).Str("url", pageURL).Msg("Price unavailable")
		fmt.Fprintf(m.out, "%s: price unavailable.\n", player.Name)
		return
	}
	fmt.Fprintf(m.out, "%s is currently %d coins.\n%s\n", player.Name, price, pageURL)

	fmt.Fprint(m.out, "Add to watchlist? (y/n): ")
	answer, ok := m.readLine()
	if !ok || strings.ToLower(answer) != "y" {
		return
	}

	fmt.Fprint(m.out, "Desired price: ")
	priceLine, ok := m.readLine()
	if !ok {
		return
	}
	desired, err := strconv.Atoi(priceLine)
	if err != nil || desired < 0 {
		fmt.Fprintln(m.out, "Desired price must be a non-negative whole number, not added.")
		return
	}

	item := watchlist.Item{Name: player.Name, URL: pageURL, DesiredPrice: desired}
	if err := m.store.Append(item); err != nil {
		m.log.Error().Err(err).Msg("Failed to persist watchlist")
		fmt.Fprintln(m.out, "Could not save the watchlist.")
		return
	}
	fmt.Fprintf(m.out, "Added %s at <= %d coins.\n", player.Name, desired)
}

func (m *Menu) showWatchlist() {
	items := m.store.Items()
	if len(items) == 0 {
		fmt.Fprintln(m.out, "The watchlist is empty.")
		return
	}
	for i, item := range items {
		fmt.Fprintf(m.out, "%d. %s - wanted <= %d coins\n", i+1, item.Name, item.DesiredPrice)
	}
}

func (m *Menu) checkNow(ctx context.Context) {
	results := m.ev.Run(ctx)
	if len(results) == 0 {
		fmt.Fprintln(m.out, "The watchlist is empty.")
		return
	}
	for _, r := range results {
		fmt.Fprintln(m.out, r.Summary())
	}
}

// readLine reads one trimmed line; ok is false when input is exhausted
func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}
