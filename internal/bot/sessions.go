package bot

import (
	"encoding/json"
	"time"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/logger"
	"github.com/jsseok/futseeker/services/cache"
)

// Sessions holds each requester's most recent search results so a later
// select or add command can refer to them by index. Entries expire after
// the configured TTL, so abandoned searches do not accumulate.
type Sessions struct {
	cache cache.CacheService
	ttl   time.Duration
	log   *logger.Logger
}

// NewSessions creates a session store on top of a cache backend
func NewSessions(c cache.CacheService, ttl time.Duration) *Sessions {
	return &Sessions{
		cache: c,
		ttl:   ttl,
		log:   logger.ForComponent("sessions"),
	}
}

func sessionKey(userID string) string {
	return "search:" + userID
}

// Put replaces the requester's pending results
func (s *Sessions) Put(userID string, players []futbin.Player) error {
	data, err := json.Marshal(players)
	if err != nil {
		return err
	}
	return s.cache.Set(sessionKey(userID), data, s.ttl)
}

// Get returns the requester's pending results, if any
func (s *Sessions) Get(userID string) ([]futbin.Player, bool) {
	data, err := s.cache.Get(sessionKey(userID))
	if err != nil {
		return nil, false
	}

	var players []futbin.Player
	if err := json.Unmarshal(data, &players); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("Dropping unreadable session")
		s.cache.Delete(sessionKey(userID))
		return nil, false
	}
	if len(players) == 0 {
		return nil, false
	}
	return players, true
}

// Clear removes the requester's pending results
func (s *Sessions) Clear(userID string) {
	s.cache.Delete(sessionKey(userID))
}
