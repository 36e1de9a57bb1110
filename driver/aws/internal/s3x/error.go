package s3x

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// IsNotExists returns true if err indicates that the requested bucket or
// object does not exist.
func IsNotExists(err error) bool {
	var (
		notFound *types.NotFound
		noKey    *types.NoSuchKey
		noBucket *types.NoSuchBucket
	)

	return errors.As(err, &notFound) ||
		errors.As(err, &noKey) ||
		errors.As(err, &noBucket)
}

// IsAlreadyExists returns true if err indicates that a bucket being created
// already exists.
func IsAlreadyExists(err error) bool {
	var (
		exists *types.BucketAlreadyExists
		owned  *types.BucketAlreadyOwnedByYou
	)

	return errors.As(err, &exists) ||
		errors.As(err, &owned)
}

// IsConflict returns true if err indicates that a conditional write was
// rejected because of the object's current state.
func IsConflict(err error) bool {
	var e smithy.APIError
	return errors.As(err, &e) && e.ErrorCode() == "PreconditionFailed"
}

// DeleteError is returned when S3 reports that an individual object within a
// DeleteObjects request could not be deleted.
type DeleteError struct {
	Key     string
	Code    string
	Message string
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("unable to delete %q: %s: %s", e.Key, e.Code, e.Message)
}
