package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"paircall_server/models"
	"paircall_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrVersionConflict signals that a queue commit lost the race against
// a concurrent writer and must be retried on a fresh snapshot.
var ErrVersionConflict = errors.New("queue version conflict")

// DynamoQueueStore holds the matchmaking queue in a DynamoDB table. A
// reserved meta item carries a version number; commits are conditioned
// on that version so that at most one mutation wins per queue state.
type DynamoQueueStore struct {
	Dynamo *DynamoService
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// Snapshot reads the whole queue with a strongly consistent scan and
// returns it together with the collection version at read time.
func (qs *DynamoQueueStore) Snapshot(ctx context.Context) (map[string]models.QueueEntry, int64, error) {
	items, err := qs.Dynamo.ScanItems(ctx, models.QueueTable, true)
	if err != nil {
		return nil, 0, err
	}

	queue := make(map[string]models.QueueEntry, len(items))
	var version int64
	for _, item := range items {
		if utils.ExtractString(item, "userId") == models.QueueMetaKey {
			version = utils.ExtractNumber(item, "version")
			continue
		}
		var entry models.QueueEntry
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal queue entry: %w", err)
		}
		queue[entry.UserID] = entry
	}
	return queue, version, nil
}

// Commit writes the difference between base and next as one atomic
// transaction. Every removed entry must still exist with the joinedAt
// the snapshot saw, and the version must not have moved; otherwise the
// transaction is cancelled and ErrVersionConflict is returned. A
// concurrent Remove (cancellation) trips the existence condition, and a
// remove-then-rejoin rewrites joinedAt and trips the equality, so a
// pairing decision never consumes an entry it did not actually read.
func (qs *DynamoQueueStore) Commit(ctx context.Context, base map[string]models.QueueEntry, baseVersion int64, next map[string]models.QueueEntry) error {
	var writes []types.TransactWriteItem

	for userID, entry := range base {
		if _, kept := next[userID]; !kept {
			writes = append(writes, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName:           aws.String(models.QueueTable),
					Key:                 userKey(userID),
					ConditionExpression: aws.String("attribute_exists(userId) AND joinedAt = :joinedAt"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":joinedAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(entry.JoinedAt, 10)},
					},
				},
			})
		}
	}
	for userID, entry := range next {
		if prev, existed := base[userID]; existed && sameEntry(prev, entry) {
			continue
		}
		item, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal queue entry: %w", err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(models.QueueTable),
				Item:      item,
			},
		})
	}

	if len(writes) == 0 {
		return nil
	}

	writes = append(writes, types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(models.QueueTable),
			Key:                 userKey(models.QueueMetaKey),
			UpdateExpression:    aws.String("SET version = :next"),
			ConditionExpression: aws.String("attribute_not_exists(version) OR version = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":next":     &types.AttributeValueMemberN{Value: strconv.FormatInt(baseVersion+1, 10)},
				":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(baseVersion, 10)},
			},
		},
	})

	if err := qs.Dynamo.TransactWriteItems(ctx, writes); err != nil {
		if IsConditionFailure(err) {
			return ErrVersionConflict
		}
		return err
	}
	return nil
}

// Add inserts or replaces a queue entry outside the transactional path
// (a plain join; conflicts with in-flight matchmaking are caught by the
// entry conditions, not the version).
func (qs *DynamoQueueStore) Add(ctx context.Context, entry models.QueueEntry) error {
	return qs.Dynamo.PutItem(ctx, models.QueueTable, entry)
}

// Remove deletes a queue entry unconditionally (cancellation).
func (qs *DynamoQueueStore) Remove(ctx context.Context, userID string) error {
	return qs.Dynamo.DeleteItem(ctx, models.QueueTable, userKey(userID))
}

func sameEntry(a, b models.QueueEntry) bool {
	if a.UserID != b.UserID || a.JoinedAt != b.JoinedAt || len(a.RecentContacts) != len(b.RecentContacts) {
		return false
	}
	for i := range a.RecentContacts {
		if a.RecentContacts[i] != b.RecentContacts[i] {
			return false
		}
	}
	return true
}
