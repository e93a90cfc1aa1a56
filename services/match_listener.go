package services

import (
	"context"
	"log"
	"sync"
	"time"

	"paircall_server/models"
)

// MatchListener watches the matches collection and tells waiting users
// when a match naming them appears. The store offers no per-key push,
// so the subscription delivers whole-collection snapshots on an
// interval and each consumer diffs for its own interest.
type MatchListener struct {
	Matches  MatchStore
	Interval time.Duration
}

const defaultPollInterval = 500 * time.Millisecond

// Subscribe delivers a snapshot of all matches on every poll tick until
// the returned stop function is called or ctx is cancelled. Delivery is
// eventually consistent with respect to match commits.
func (l *MatchListener) Subscribe(ctx context.Context, onChange func([]models.Match)) func() {
	interval := l.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		// Scan once up front: a match that already exists (reconnect)
		// must not wait out a full interval.
		for {
			matches, err := l.Matches.ListMatches(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("match subscription scan failed: %v", err)
			} else {
				onChange(matches)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

// ListenForMatch invokes onMatch exactly once, with the first match
// naming userID. Repeat snapshots after the first hit are ignored and
// the underlying subscription is torn down.
func (l *MatchListener) ListenForMatch(ctx context.Context, userID string, onMatch func(models.Match)) func() {
	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	l.Subscribe(ctx, func(matches []models.Match) {
		for _, match := range matches {
			if match.Involves(userID) {
				once.Do(func() {
					onMatch(match)
					cancel()
				})
				return
			}
		}
	})
	return cancel
}
