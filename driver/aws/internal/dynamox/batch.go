package dynamox

import (
	"context"
	"iter"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

// maxBatchWriteSize is the maximum number of requests in a single
// BatchWriteItem call.
const maxBatchWriteSize = 25

// BatchDelete deletes the items with the given primary keys from a table.
//
// The keys are sent in batches of at most 25. Any items reported as
// unprocessed are resubmitted until the batch is complete.
func BatchDelete(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	onRequest func(any) []func(*dynamodb.Options),
	keys []map[string]types.AttributeValue,
) error {
	for batch := range chunk(keys, maxBatchWriteSize) {
		requests := make([]types.WriteRequest, 0, len(batch))
		for _, k := range batch {
			requests = append(
				requests,
				types.WriteRequest{
					DeleteRequest: &types.DeleteRequest{
						Key: k,
					},
				},
			)
		}

		in := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: requests,
			},
		}

		for len(in.RequestItems) != 0 {
			out, err := awsx.Do(ctx, client.BatchWriteItem, onRequest, in)
			if err != nil {
				return err
			}

			in.RequestItems = out.UnprocessedItems
		}
	}

	return nil
}

func chunk[T any](items []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for len(items) > 0 {
			n := min(size, len(items))
			if !yield(items[:n]) {
				return
			}
			items = items[n:]
		}
	}
}
