package awsx

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// TestConfig returns the configuration for a locally running AWS-compatible
// service named by svc, such as "MINIO" or "DYNAMODB".
//
// The endpoint and credentials may be overridden by the
// DOGMATIQ_TEST_<svc>_ENDPOINT, DOGMATIQ_TEST_<svc>_ACCESS_KEY and
// DOGMATIQ_TEST_<svc>_SECRET_KEY environment variables. Requests are not
// retried.
func TestConfig(
	t testing.TB,
	svc, endpoint, accessKey, secretKey string,
) aws.Config {
	t.Helper()

	env := func(name, def string) string {
		if v := os.Getenv("DOGMATIQ_TEST_" + svc + "_" + name); v != "" {
			return v
		}
		return def
	}

	cfg, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion("us-east-1"),
		config.WithBaseEndpoint(env("ENDPOINT", endpoint)),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				env("ACCESS_KEY", accessKey),
				env("SECRET_KEY", secretKey),
				"",
			),
		),
		config.WithRetryer(
			func() aws.Retryer {
				return aws.NopRetryer{}
			},
		),
	)
	if err != nil {
		t.Fatal(err)
	}

	return cfg
}
