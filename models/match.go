package models

// Match records a resolved pairing of two queue users. Both users join
// the media channel named by ChannelName; the record is deleted by
// whichever client first observes the call ending.
type Match struct {
	MatchID     string `dynamodbav:"matchId" json:"matchId"`
	User1       string `dynamodbav:"user1" json:"user1"`
	User2       string `dynamodbav:"user2" json:"user2"`
	ChannelName string `dynamodbav:"channelName" json:"channelName"`
	CreatedAt   int64  `dynamodbav:"createdAt" json:"createdAt"` // ms since epoch
}

// Involves reports whether userID is one of the two matched users.
func (m Match) Involves(userID string) bool {
	return m.User1 == userID || m.User2 == userID
}

// MatchesTable is the DynamoDB table name for resolved matches
const MatchesTable = "Matches"

// ChannelPrefix prefixes the matchId to form the media channel name.
const ChannelPrefix = "channel_"
