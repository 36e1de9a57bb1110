package dynamomap

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dogmatiq/dirmap/internal/x/xsync"
	"github.com/dogmatiq/dirmap/mapping"
)

// store is an implementation of [mapping.Store] that persists to a DynamoDB
// table.
type store struct {
	Client    *dynamodb.Client
	Table     string
	OnRequest func(any) []func(*dynamodb.Options)

	createTableOnce xsync.SucceedOnce
}

// NewStore returns a new [mapping.Store] that uses the given DynamoDB client to
// store key/value pairs in the given table.
//
// The table is created on first use if it does not already exist.
func NewStore(
	client *dynamodb.Client,
	table string,
	options ...Option,
) mapping.Store {
	if table == "" {
		panic("table name must not be empty")
	}

	s := &store{
		Client: client,
		Table:  table,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Option is a functional option that changes the behavior of [NewStore].
type Option func(*store)

// WithRequestHook is an [Option] that configures fn as a pre-request hook.
//
// Before each DynamoDB API request, fn is passed a pointer to the input struct,
// e.g. [dynamodb.GetItemInput], which it may modify in-place. It may be called
// with any DynamoDB request type. The types of requests used may change in any
// version without notice.
//
// Any functions returned by fn will be applied to the request's options before
// the request is sent.
func WithRequestHook(fn func(any) []func(*dynamodb.Options)) Option {
	return func(s *store) {
		s.OnRequest = fn
	}
}

// Open returns the mapping with the given name.
func (s *store) Open(ctx context.Context, name string) (mapping.Mapping, error) {
	if err := s.createTableOnce.Do(ctx, s.createTable); err != nil {
		return nil, err
	}

	return &itemMapping{
		client:    s.Client,
		onRequest: s.OnRequest,
		table:     s.Table,
		name:      name,
	}, nil
}
