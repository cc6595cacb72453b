package publisher

// Publisher represents a service for publishing alert events so that
// consumers outside this process can react to price drops.
type Publisher interface {
	// Publish publishes an alert event
	Publish(event []byte) error

	// Trim trims the stream to the configured maximum length
	Trim() error

	// Close closes the publisher connection
	Close() error
}
