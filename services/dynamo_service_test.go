package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestIsConditionFailure(t *testing.T) {
	canceledWith := func(codes ...string) error {
		reasons := make([]types.CancellationReason, len(codes))
		for i, code := range codes {
			reasons[i] = types.CancellationReason{Code: aws.String(code)}
		}
		return &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"condition failed reason", canceledWith("None", "ConditionalCheckFailed", "None"), true},
		{"transaction conflict reason", canceledWith("None", "TransactionConflict"), true},
		{"conflict exception", &types.TransactionConflictException{}, true},
		{"conditional check exception", &types.ConditionalCheckFailedException{}, true},
		{"wrapped by the service", fmt.Errorf("transactional write failed: %w", canceledWith("TransactionConflict")), true},
		{"cancelled for another reason", canceledWith("ValidationError"), false},
		{"unrelated error", errors.New("connection reset"), false},
		{"nil reason code", &types.TransactionCanceledException{CancellationReasons: []types.CancellationReason{{}}}, false},
	}

	for _, tc := range cases {
		if got := IsConditionFailure(tc.err); got != tc.want {
			t.Errorf("%s: IsConditionFailure = %v, want %v", tc.name, got, tc.want)
		}
	}
}
