package services

import (
	"context"
	"fmt"

	"paircall_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoMatchStore holds resolved matches in a DynamoDB table.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func (ms *DynamoMatchStore) PutMatch(ctx context.Context, match models.Match) error {
	return ms.Dynamo.PutItem(ctx, models.MatchesTable, match)
}

// ListMatches returns the full matches collection. Listeners diff this
// snapshot for their own user id; the store does no per-key filtering.
func (ms *DynamoMatchStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	items, err := ms.Dynamo.ScanItems(ctx, models.MatchesTable, false)
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(items))
	for _, item := range items {
		var match models.Match
		if err := attributevalue.UnmarshalMap(item, &match); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// DeleteMatch removes a match record; deleting an already-released
// match is a no-op.
func (ms *DynamoMatchStore) DeleteMatch(ctx context.Context, matchID string) error {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	return ms.Dynamo.DeleteItem(ctx, models.MatchesTable, key)
}
