package futbin

import "context"

// Player is one row of a search response
type Player struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`

	RatingSquare struct {
		Rating int `json:"rating"`
	} `json:"ratingSquare"`

	Location struct {
		URL string `json:"url"`
	} `json:"location"`
}

// Rating returns the player's overall rating
func (p Player) Rating() int {
	return p.RatingSquare.Rating
}

// PagePath returns the relative detail-page path for the player
func (p Player) PagePath() string {
	return p.Location.URL
}

// Market is the part of the client the front ends and the evaluator use.
// Keeping the scraping behind this interface means the extraction strategy
// can change without touching any other component.
type Market interface {
	// Search looks up players matching the query
	Search(ctx context.Context, query string) ([]Player, error)

	// Price fetches the current lowest price from a player detail page
	Price(ctx context.Context, pageURL string) (int, error)

	// ResolveURL joins a relative detail-page path onto the site base URL
	ResolveURL(path string) string
}
