package s3x

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

// CreateBucketIfNotExists creates an S3 bucket if it does not already exist.
func CreateBucketIfNotExists(
	ctx context.Context,
	client *s3.Client,
	bucket string,
	onRequest func(any) []func(*s3.Options),
) error {
	_, err := awsx.Do(
		ctx,
		client.CreateBucket,
		onRequest,
		&s3.CreateBucketInput{
			Bucket: aws.String(bucket),
		},
	)
	if IsAlreadyExists(err) {
		return nil
	}
	return err
}

// DeleteBucketIfExists deletes an S3 bucket and all of its objects, if it
// exists.
func DeleteBucketIfExists(
	ctx context.Context,
	client *s3.Client,
	bucket string,
	onRequest func(any) []func(*s3.Options),
) error {
	for {
		var keys []string

		if err := ListKeys(
			ctx,
			client,
			onRequest,
			&s3.ListObjectsV2Input{
				Bucket: aws.String(bucket),
			},
			func(k string) bool {
				keys = append(keys, k)
				return true
			},
		); err != nil {
			if IsNotExists(err) {
				return nil
			}
			return err
		}

		if err := DeleteObjects(ctx, client, bucket, onRequest, keys); err != nil {
			return err
		}

		_, err := awsx.Do(
			ctx,
			client.DeleteBucket,
			onRequest,
			&s3.DeleteBucketInput{
				Bucket: aws.String(bucket),
			},
		)
		if err == nil || IsNotExists(err) {
			return nil
		}

		// Objects may have been added since they were listed.
		if ctx.Err() != nil {
			return err
		}
	}
}

// ListKeys calls fn for the key of each object matched by in, following
// pagination until the listing is exhausted or fn returns false.
func ListKeys(
	ctx context.Context,
	client *s3.Client,
	onRequest func(any) []func(*s3.Options),
	in *s3.ListObjectsV2Input,
	fn func(string) bool,
) error {
	in.ContinuationToken = nil

	for {
		out, err := awsx.Do(ctx, client.ListObjectsV2, onRequest, in)
		if err != nil {
			return err
		}

		for _, obj := range out.Contents {
			if !fn(aws.ToString(obj.Key)) {
				return nil
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			return nil
		}

		in.ContinuationToken = out.NextContinuationToken
	}
}

// maxDeleteObjects is the maximum number of objects that may be deleted by a
// single DeleteObjects call.
const maxDeleteObjects = 1000

// DeleteObjects deletes the objects with the given keys, in batches of at most
// 1000 objects.
func DeleteObjects(
	ctx context.Context,
	client *s3.Client,
	bucket string,
	onRequest func(any) []func(*s3.Options),
	keys []string,
) error {
	for len(keys) > 0 {
		n := min(len(keys), maxDeleteObjects)

		objects := make([]types.ObjectIdentifier, 0, n)
		for _, k := range keys[:n] {
			objects = append(
				objects,
				types.ObjectIdentifier{
					Key: aws.String(k),
				},
			)
		}

		out, err := awsx.Do(
			ctx,
			client.DeleteObjects,
			onRequest,
			&s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &types.Delete{
					Objects: objects,
					Quiet:   aws.Bool(true),
				},
			},
		)
		if err != nil {
			return err
		}

		if len(out.Errors) != 0 {
			e := out.Errors[0]
			return &DeleteError{
				Key:     aws.ToString(e.Key),
				Code:    aws.ToString(e.Code),
				Message: aws.ToString(e.Message),
			}
		}

		keys = keys[n:]
	}

	return nil
}
