package services

import (
	"sort"

	"paircall_server/models"
)

// Pairing names the two users removed from the queue by a successful
// match attempt. User1 is always the user that triggered the attempt.
type Pairing struct {
	User1 string
	User2 string
}

// AttemptMatch decides whether the triggering user can be paired with
// someone already waiting. It is pure: no I/O, no mutation of the input
// queue, identical output for identical input — the hosting transaction
// replays it from scratch after every conflict.
//
// Candidates are scanned oldest-first (joinedAt ascending, userId as
// the tie-break so ordering never depends on map iteration). A
// candidate is eligible only if neither side lists the other in its
// recent contacts; either side remembering the other blocks the pair.
//
// On success the returned queue is the input minus exactly the trigger
// and its candidate. If the trigger is not in the queue (already
// matched or cancelled by a concurrent writer) or no candidate is
// eligible, the queue comes back unchanged with a nil pairing.
func AttemptMatch(queue map[string]models.QueueEntry, triggerID string) (map[string]models.QueueEntry, *Pairing) {
	trigger, waiting := queue[triggerID]
	if !waiting || len(queue) < 2 {
		return queue, nil
	}

	ordered := make([]models.QueueEntry, 0, len(queue))
	for _, entry := range queue {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].JoinedAt != ordered[j].JoinedAt {
			return ordered[i].JoinedAt < ordered[j].JoinedAt
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	for _, candidate := range ordered {
		if candidate.UserID == triggerID {
			continue
		}
		if contains(trigger.RecentContacts, candidate.UserID) || contains(candidate.RecentContacts, triggerID) {
			continue
		}

		next := make(map[string]models.QueueEntry, len(queue)-2)
		for id, entry := range queue {
			if id != triggerID && id != candidate.UserID {
				next[id] = entry
			}
		}
		return next, &Pairing{User1: triggerID, User2: candidate.UserID}
	}

	// Nobody eligible right now; the trigger stays queued and a future
	// join re-triggers the attempt.
	return queue, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
