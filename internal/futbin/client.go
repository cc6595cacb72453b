package futbin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jsseok/futseeker/helpers"
	"github.com/jsseok/futseeker/logger"
	apperr "github.com/jsseok/futseeker/pkg/errors"
)

// ErrPriceNotFound is returned when a detail page carries no readable price,
// either because the item is gone or because the page layout changed.
var ErrPriceNotFound = errors.New("futbin: price not found")

const (
	// DefaultBaseURL is the production Futbin site
	DefaultBaseURL = "https://www.futbin.com"

	searchPath = "/players/search"

	// priceSelector is the fixed selector chain down to the lowest-price
	// node of a player page. It is an external contract with the site: a
	// layout change breaks it, which must surface as ErrPriceNotFound.
	priceSelector = "body > div > div.player-page.medium-column.displaying-market-prices > " +
		"div.column > div.m-column.relative > div.player-header-section > div > " +
		"div.player-header-prices-section > " +
		"div.price-box.player-price-not-pc.price-box-original-player > div.column > " +
		"div.price.inline-with-icon.lowest-price-1"
)

// Client talks to the Futbin search endpoint and player detail pages
type Client struct {
	baseURL string
	year    string
	log     *logger.Logger
}

var _ Market = (*Client)(nil)

// NewClient creates a new Futbin client. An empty baseURL falls back to the
// production site.
func NewClient(baseURL, year string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		year:    year,
		log:     logger.ForComponent("futbin"),
	}
}

// Search looks up players matching the query
func (c *Client) Search(ctx context.Context, query string) ([]Player, error) {
	params := url.Values{}
	params.Set("targetPage", "PLAYER_PAGE")
	params.Set("query", query)
	params.Set("year", c.year)
	params.Set("evolutions", "false")

	searchURL := c.baseURL + searchPath + "?" + params.Encode()

	body, err := helpers.Fetch(ctx, searchURL)
	if err != nil {
		return nil, apperr.NewNetwork("futbin", "search request failed", err)
	}

	var players []Player
	if err := json.Unmarshal(body, &players); err != nil {
		c.log.Warn().
			Str("query", query).
			Str("body", snippet(body, 500)).
			Msg("Search response is not JSON")
		return nil, apperr.NewParsing("futbin", "search response is not JSON", err)
	}

	return players, nil
}

// Price fetches the current lowest price from a player detail page
func (c *Client) Price(ctx context.Context, pageURL string) (int, error) {
	body, err := helpers.Fetch(ctx, pageURL)
	if err != nil {
		return 0, apperr.NewNetwork("futbin", "detail page request failed", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, apperr.NewParsing("futbin", "detail page is not parseable HTML", err)
	}

	sel := doc.Find(priceSelector)
	if sel.Length() == 0 {
		return 0, ErrPriceNotFound
	}

	text := strings.ReplaceAll(strings.TrimSpace(sel.First().Text()), ",", "")
	price, err := strconv.Atoi(text)
	if err != nil {
		c.log.Warn().
			Str("url", pageURL).
			Str("text", text).
			Msg("Price node is not numeric")
		return 0, ErrPriceNotFound
	}

	return price, nil
}

// ResolveURL joins a relative detail-page path onto the site base URL
func (c *Client) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// snippet returns at most n bytes of a response body for diagnostics
func snippet(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
