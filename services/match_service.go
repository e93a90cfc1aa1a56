package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"paircall_server/models"

	"github.com/google/uuid"
)

// ErrTooMuchContention is returned when a matchmaking transaction keeps
// losing the optimistic-commit race and the bounded retry budget runs
// out. Callers treat it as transient and may try again.
var ErrTooMuchContention = errors.New("matchmaking transaction retries exhausted")

// ErrMatchPublishFailed is returned when two users were removed from
// the queue but the match record write failed. There is no automatic
// repair for this state; it must be surfaced and monitored.
var ErrMatchPublishFailed = errors.New("failed to publish match record")

// ErrReservedUserID is returned when a queue operation names the
// reserved meta key; letting it through would overwrite or delete the
// version item the optimistic commits depend on.
var ErrReservedUserID = errors.New("userId is reserved")

// QueueStore is the transactional queue collection: consistent
// snapshots plus conditional commits that fail with ErrVersionConflict
// when any concurrent write touched the snapshot.
type QueueStore interface {
	Snapshot(ctx context.Context) (map[string]models.QueueEntry, int64, error)
	Commit(ctx context.Context, base map[string]models.QueueEntry, baseVersion int64, next map[string]models.QueueEntry) error
	Add(ctx context.Context, entry models.QueueEntry) error
	Remove(ctx context.Context, userID string) error
}

// MatchStore is the matches collection: unconditional writes, whole
// collection reads.
type MatchStore interface {
	PutMatch(ctx context.Context, match models.Match) error
	ListMatches(ctx context.Context) ([]models.Match, error)
	DeleteMatch(ctx context.Context, matchID string) error
}

type MatchService struct {
	Queue   QueueStore
	Matches MatchStore
}

const (
	maxTransactAttempts = 8
	baseBackoff         = 25 * time.Millisecond
	maxBackoff          = 500 * time.Millisecond
)

// Enqueue puts the user into the waiting queue and immediately attempts
// a match. The returned match is non-nil only when this attempt itself
// resolved a pairing; otherwise the user waits and is notified through
// the match listener when someone else's attempt pairs them.
func (s *MatchService) Enqueue(ctx context.Context, userID string, recentContacts []string) (*models.Match, error) {
	if userID == models.QueueMetaKey {
		return nil, ErrReservedUserID
	}
	if len(recentContacts) > models.MaxRecentContacts {
		recentContacts = recentContacts[:models.MaxRecentContacts]
	}
	entry := models.QueueEntry{
		UserID:         userID,
		JoinedAt:       time.Now().UnixMilli(),
		RecentContacts: recentContacts,
	}
	if err := s.Queue.Add(ctx, entry); err != nil {
		return nil, err
	}
	return s.TryMatch(ctx, userID)
}

// Dequeue removes the user from the queue (cancellation). An in-flight
// matchmaking transaction that already read this entry will fail its
// commit conditions and re-observe the removal before it can pair the
// user.
func (s *MatchService) Dequeue(ctx context.Context, userID string) error {
	if userID == models.QueueMetaKey {
		return ErrReservedUserID
	}
	return s.Queue.Remove(ctx, userID)
}

// TryMatch runs the read-compute-commit cycle hosting AttemptMatch. On
// a version conflict the whole cycle restarts on a fresh snapshot, with
// exponential backoff up to maxTransactAttempts.
func (s *MatchService) TryMatch(ctx context.Context, userID string) (*models.Match, error) {
	backoff := baseBackoff
	for attempt := 0; attempt < maxTransactAttempts; attempt++ {
		queue, version, err := s.Queue.Snapshot(ctx)
		if err != nil {
			return nil, err
		}

		next, pairing := AttemptMatch(queue, userID)
		if pairing == nil {
			return nil, nil
		}

		err = s.Queue.Commit(ctx, queue, version, next)
		if errors.Is(err, ErrVersionConflict) {
			if werr := waitBackoff(ctx, backoff); werr != nil {
				return nil, werr
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.publishMatch(ctx, pairing)
	}
	return nil, ErrTooMuchContention
}

// publishMatch runs once per committed pairing, outside the queue
// transaction: a fresh id is never contested, so this write needs no
// conflict retry.
func (s *MatchService) publishMatch(ctx context.Context, pairing *Pairing) (*models.Match, error) {
	matchID := uuid.New().String()
	match := models.Match{
		MatchID:     matchID,
		User1:       pairing.User1,
		User2:       pairing.User2,
		ChannelName: models.ChannelPrefix + matchID,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := s.Matches.PutMatch(ctx, match); err != nil {
		// The pair is already out of the queue but has no match record.
		log.Printf("❌ Match publish failed for %s and %s: %v", pairing.User1, pairing.User2, err)
		return nil, fmt.Errorf("%w: %v", ErrMatchPublishFailed, err)
	}
	log.Printf("✅ Matched %s with %s on %s", pairing.User1, pairing.User2, match.ChannelName)
	return &match, nil
}

// FindMatchFor returns the match naming userID, or nil if none exists.
func (s *MatchService) FindMatchFor(ctx context.Context, userID string) (*models.Match, error) {
	matches, err := s.Matches.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		if match.Involves(userID) {
			return &match, nil
		}
	}
	return nil, nil
}

// ReleaseMatch deletes the match naming userID after a call ends. Both
// participants call this; whichever request lands second finds nothing
// to delete and succeeds anyway.
func (s *MatchService) ReleaseMatch(ctx context.Context, userID string) error {
	match, err := s.FindMatchFor(ctx, userID)
	if err != nil {
		return err
	}
	if match == nil {
		return nil
	}
	return s.Matches.DeleteMatch(ctx, match.MatchID)
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	jittered := d/2 + time.Duration(rand.Int63n(int64(d)))
	select {
	case <-time.After(jittered):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
