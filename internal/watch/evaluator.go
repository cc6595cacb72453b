package watch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/notify"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
	"github.com/jsseok/futseeker/services/publisher"
)

// Result is the outcome of checking one watchlist item
type Result struct {
	Item       watchlist.Item
	Price      int
	PriceKnown bool
	Triggered  bool
	Err        error
}

// Summary formats the result for display in a report
func (r Result) Summary() string {
	if !r.PriceKnown {
		return fmt.Sprintf("%s: price unavailable", r.Item.Name)
	}
	if r.Triggered {
		return fmt.Sprintf("%s: %d coins (wanted <= %d) ALERT", r.Item.Name, r.Price, r.Item.DesiredPrice)
	}
	return fmt.Sprintf("%s: %d coins (wanted <= %d)", r.Item.Name, r.Price, r.Item.DesiredPrice)
}

// alertEvent is the payload published to the alert stream
type alertEvent struct {
	Name         string `json:"name"`
	CurrentPrice int    `json:"current_price"`
	DesiredPrice int    `json:"desired_price"`
	URL          string `json:"url"`
}

// Evaluator runs one pass over the watchlist, comparing current prices
// against desired ceilings. The comparison is inclusive and stateless, so
// a sustained low price alerts again on every pass.
type Evaluator struct {
	store    *watchlist.Store
	market   futbin.Market
	notifier notify.Notifier
	pub      publisher.Publisher
	log      *logger.Logger
}

// NewEvaluator creates an evaluator. pub may be nil when no alert stream
// is configured.
func NewEvaluator(store *watchlist.Store, market futbin.Market, notifier notify.Notifier, pub publisher.Publisher) *Evaluator {
	return &Evaluator{
		store:    store,
		market:   market,
		notifier: notifier,
		pub:      pub,
		log:      logger.ForComponent("evaluator"),
	}
}

// Run evaluates every watchlist item in sequence order. One item's failure
// never aborts the rest of the batch.
func (e *Evaluator) Run(ctx context.Context) []Result {
	items := e.store.Items()
	results := make([]Result, 0, len(items))

	for _, item := range items {
		price, err := e.market.Price(ctx, item.URL)
		if err != nil {
			e.log.Warn().
				Err(err).
				Str("name", item.Name).
				Str("url", item.URL).
				Msg("Price unavailable")
			results = append(results, Result{Item: item, Err: err})
			continue
		}

		result := Result{
			Item:       item,
			Price:      price,
			PriceKnown: true,
			Triggered:  price <= item.DesiredPrice,
		}
		if result.Triggered {
			e.alert(ctx, result)
		}
		results = append(results, result)
	}

	// Keep the alert stream bounded after each pass
	if e.pub != nil {
		if err := e.pub.Trim(); err != nil {
			e.log.Warn().Err(err).Msg("Alert stream trim failed")
		}
	}

	return results
}

// alert routes a triggered result to the notifier and the alert stream
func (e *Evaluator) alert(ctx context.Context, r Result) {
	e.log.Info().
		Str("name", r.Item.Name).
		Int("price", r.Price).
		Int("desired_price", r.Item.DesiredPrice).
		Msg("Desired price reached")

	message := fmt.Sprintf("%s is at %d coins (wanted <= %d)\n%s",
		r.Item.Name, r.Price, r.Item.DesiredPrice, r.Item.URL)

	if err := e.notifier.Notify(ctx, message); err != nil {
		e.log.Warn().Err(err).Msg("Alert notification failed")
	}

	if e.pub != nil {
		event, err := json.Marshal(alertEvent{
			Name:         r.Item.Name,
			CurrentPrice: r.Price,
			DesiredPrice: r.Item.DesiredPrice,
			URL:          r.Item.URL,
		})
		if err == nil {
			if err := e.pub.Publish(event); err != nil {
				e.log.Warn().Err(err).Msg("Alert publish failed")
			}
		}
	}
}
