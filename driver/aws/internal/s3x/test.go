package s3x

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

// NewTestClient returns a client for the MinIO server used by tests.
//
// The test is skipped if the server is unreachable.
func NewTestClient(t testing.TB) *s3.Client {
	t.Helper()

	cfg := awsx.TestConfig(t, "MINIO", "http://localhost:29000", "minio", "password")
	client := s3.NewFromConfig(
		cfg,
		func(opts *s3.Options) {
			opts.UsePathStyle = true
		},
	)

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		t.Skipf("MinIO is not available at %s: %s", aws.ToString(cfg.BaseEndpoint), err)
	}

	return client
}
