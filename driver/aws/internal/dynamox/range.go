package dynamox

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

// RangeFunc is a function that is called for each item in a result set.
type RangeFunc func(context.Context, map[string]types.AttributeValue) (bool, error)

// Range executes a query and calls fn for each item in the result set,
// following pagination until the result set is exhausted.
func Range(
	ctx context.Context,
	client *dynamodb.Client,
	onRequest func(any) []func(*dynamodb.Options),
	in *dynamodb.QueryInput,
	fn RangeFunc,
) error {
	in.ExclusiveStartKey = nil

	for {
		out, err := awsx.Do(ctx, client.Query, onRequest, in)
		if err != nil {
			return err
		}

		for _, item := range out.Items {
			if ok, err := fn(ctx, item); err != nil || !ok {
				return err
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}

		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Count executes a query that selects [types.SelectCount] and returns the
// total number of matching items across all pages.
func Count(
	ctx context.Context,
	client *dynamodb.Client,
	onRequest func(any) []func(*dynamodb.Options),
	in *dynamodb.QueryInput,
) (int, error) {
	in.Select = types.SelectCount
	in.ExclusiveStartKey = nil

	n := 0

	for {
		out, err := awsx.Do(ctx, client.Query, onRequest, in)
		if err != nil {
			return 0, err
		}

		n += int(out.Count)

		if len(out.LastEvaluatedKey) == 0 {
			return n, nil
		}

		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
