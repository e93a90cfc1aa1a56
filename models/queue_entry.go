package models

// QueueEntry is one waiting user's record in the matchmaking queue.
// There is at most one entry per userId; the entry is removed when the
// user is matched or explicitly leaves the queue.
type QueueEntry struct {
	UserID         string   `dynamodbav:"userId" json:"userId"`
	JoinedAt       int64    `dynamodbav:"joinedAt" json:"joinedAt"`                               // ms since epoch
	RecentContacts []string `dynamodbav:"recentContacts,omitempty" json:"recentContacts,omitempty"` // newest first, capped at MaxRecentContacts
}

// MaxRecentContacts caps how many previous partners a queue entry
// remembers for the rematch-exclusion check.
const MaxRecentContacts = 3

// QueueTable is the DynamoDB table name for the matchmaking queue
const QueueTable = "MatchQueue"

// QueueMetaKey is the reserved userId of the version item used for
// optimistic concurrency over the queue collection. It never appears
// in a queue snapshot.
const QueueMetaKey = "#meta"
