package dynamox

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

// NewTestClient returns a client for the DynamoDB Local server used by tests.
//
// The test is skipped if the server is unreachable.
func NewTestClient(t testing.TB) *dynamodb.Client {
	t.Helper()

	cfg := awsx.TestConfig(t, "DYNAMODB", "http://localhost:28000", "id", "secret")
	client := dynamodb.NewFromConfig(cfg)

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()

	if _, err := client.ListTables(ctx, &dynamodb.ListTablesInput{}); err != nil {
		t.Skipf("DynamoDB is not available at %s: %s", aws.ToString(cfg.BaseEndpoint), err)
	}

	return client
}
