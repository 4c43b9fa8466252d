package common

import (
	"context"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var queryCodeCache sync.Map

// ApplyQuery filters payload through a jq expression. An empty expression
// returns the payload untouched. A single result is unwrapped; multiple
// results come back as a slice.
func ApplyQuery(ctx context.Context, payload any, expression string) (any, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return payload, nil
	}

	code, err := cachedQueryCode(trimmed)
	if err != nil {
		return nil, ValidationError("invalid jq expression", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	iterator := code.RunWithContext(ctx, payload)
	results := make([]any, 0, 1)
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if valueErr, isErr := value.(error); isErr {
			return nil, ValidationError("failed to evaluate jq expression", valueErr)
		}
		results = append(results, value)
	}

	if len(results) == 0 {
		return []any{}, nil
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func cachedQueryCode(expression string) (*gojq.Code, error) {
	if cached, ok := queryCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := queryCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}
