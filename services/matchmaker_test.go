package services

import (
	"testing"

	"paircall_server/models"
)

func queueOf(entries ...models.QueueEntry) map[string]models.QueueEntry {
	queue := make(map[string]models.QueueEntry, len(entries))
	for _, e := range entries {
		queue[e.UserID] = e
	}
	return queue
}

func TestAttemptMatchPairsOldestEligible(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 100},
		models.QueueEntry{UserID: "u2", JoinedAt: 200},
	)

	next, pairing := AttemptMatch(queue, "u2")
	if pairing == nil {
		t.Fatal("expected a pairing")
	}
	if pairing.User1 != "u2" || pairing.User2 != "u1" {
		t.Errorf("expected (u2, u1), got (%s, %s)", pairing.User1, pairing.User2)
	}
	if len(next) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(next))
	}
}

func TestAttemptMatchPrefersLongestWaiting(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 300},
		models.QueueEntry{UserID: "u2", JoinedAt: 100},
		models.QueueEntry{UserID: "u3", JoinedAt: 200},
	)

	_, pairing := AttemptMatch(queue, "u1")
	if pairing == nil || pairing.User2 != "u2" {
		t.Fatalf("expected u1 to pair with the oldest entry u2, got %+v", pairing)
	}
}

func TestAttemptMatchBidirectionalExclusion(t *testing.T) {
	// u1 remembers u2: blocked regardless of who triggers.
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 100, RecentContacts: []string{"u2"}},
		models.QueueEntry{UserID: "u2", JoinedAt: 200},
	)

	next, pairing := AttemptMatch(queue, "u2")
	if pairing != nil {
		t.Fatalf("expected no pairing, got %+v", pairing)
	}
	if len(next) != 2 {
		t.Errorf("queue should be unchanged, got %d entries", len(next))
	}

	_, pairing = AttemptMatch(queue, "u1")
	if pairing != nil {
		t.Fatalf("exclusion must block the remembering side too, got %+v", pairing)
	}
}

func TestAttemptMatchSkipsExcludedForOlderEligible(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 100, RecentContacts: []string{"u3"}},
		models.QueueEntry{UserID: "u2", JoinedAt: 200},
		models.QueueEntry{UserID: "u3", JoinedAt: 300},
	)

	next, pairing := AttemptMatch(queue, "u3")
	if pairing == nil || pairing.User2 != "u2" {
		t.Fatalf("expected u3 to skip u1 and pair with u2, got %+v", pairing)
	}
	if _, left := next["u1"]; !left {
		t.Error("u1 should remain queued")
	}
	if len(next) != 1 {
		t.Errorf("expected queue to shrink by exactly two, got %d entries", len(next))
	}
}

func TestAttemptMatchMissingTrigger(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 100},
		models.QueueEntry{UserID: "u2", JoinedAt: 200},
	)

	next, pairing := AttemptMatch(queue, "gone")
	if pairing != nil {
		t.Fatalf("absent trigger must not pair, got %+v", pairing)
	}
	if len(next) != 2 {
		t.Errorf("queue should be unchanged, got %d entries", len(next))
	}
}

func TestAttemptMatchAloneInQueue(t *testing.T) {
	queue := queueOf(models.QueueEntry{UserID: "u1", JoinedAt: 100})

	_, pairing := AttemptMatch(queue, "u1")
	if pairing != nil {
		t.Fatalf("a lone user must never self-match, got %+v", pairing)
	}
}

func TestAttemptMatchTieBreakByUserID(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "ub", JoinedAt: 100},
		models.QueueEntry{UserID: "ua", JoinedAt: 100},
		models.QueueEntry{UserID: "uc", JoinedAt: 200},
	)

	for i := 0; i < 20; i++ {
		_, pairing := AttemptMatch(queue, "uc")
		if pairing == nil || pairing.User2 != "ua" {
			t.Fatalf("tie on joinedAt must break by userId, got %+v", pairing)
		}
	}
}

func TestAttemptMatchDoesNotMutateInput(t *testing.T) {
	queue := queueOf(
		models.QueueEntry{UserID: "u1", JoinedAt: 100},
		models.QueueEntry{UserID: "u2", JoinedAt: 200},
	)

	next, pairing := AttemptMatch(queue, "u2")
	if pairing == nil {
		t.Fatal("expected a pairing")
	}
	if len(queue) != 2 {
		t.Errorf("input queue was mutated: %d entries", len(queue))
	}
	if len(next) != 0 {
		t.Errorf("expected result queue to be empty, got %d entries", len(next))
	}
}
