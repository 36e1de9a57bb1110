package s3map

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
	"github.com/dogmatiq/dirmap/driver/aws/internal/s3x"
	"github.com/dogmatiq/dirmap/internal/x/xerrors"
	"github.com/dogmatiq/dirmap/mapping"
)

// objectMapping is an implementation of [mapping.Mapping] that stores each
// entry as an S3 object. The object's key is derived from the entry's key and
// its content is the value.
type objectMapping struct {
	client          *s3.Client
	onRequest       func(any) []func(*s3.Options)
	name            string
	bucket          string
	objectKeyPrefix string
}

func (m *objectMapping) Name() string {
	return m.name
}

func (m *objectMapping) Len(ctx context.Context) (n int, err error) {
	defer xerrors.Wrap(&err, "unable to count the entries in the %q mapping", m.name)

	err = s3x.ListKeys(
		ctx,
		m.client,
		m.onRequest,
		m.listRequest(),
		func(string) bool {
			n++
			return true
		},
	)

	return n, err
}

func (m *objectMapping) Get(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to get %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	v, ok, err := m.get(ctx, k)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return v, nil
}

func (m *objectMapping) get(ctx context.Context, k string) (string, bool, error) {
	res, err := awsx.Do(
		ctx,
		m.client.GetObject,
		m.onRequest,
		&s3.GetObjectInput{
			Bucket: &m.bucket,
			Key:    m.objectKey(k),
		},
	)
	if s3x.IsNotExists(err) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	defer res.Body.Close()

	var w strings.Builder
	if _, err := io.Copy(&w, res.Body); err != nil {
		return "", false, err
	}

	return w.String(), true, nil
}

func (m *objectMapping) Has(ctx context.Context, k string) (ok bool, err error) {
	defer xerrors.Wrap(&err, "unable to check for %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return false, err
	}

	_, err = awsx.Do(
		ctx,
		m.client.HeadObject,
		m.onRequest,
		&s3.HeadObjectInput{
			Bucket: &m.bucket,
			Key:    m.objectKey(k),
		},
	)
	if s3x.IsNotExists(err) {
		return false, nil
	}

	return err == nil, err
}

func (m *objectMapping) Set(ctx context.Context, k, v string) (err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return err
	}

	_, err = awsx.Do(
		ctx,
		m.client.PutObject,
		m.onRequest,
		m.putRequest(k, v),
	)

	return err
}

func (m *objectMapping) Delete(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to delete %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	v, ok, err := m.get(ctx, k)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	if _, err := awsx.Do(
		ctx,
		m.client.DeleteObject,
		m.onRequest,
		&s3.DeleteObjectInput{
			Bucket: &m.bucket,
			Key:    m.objectKey(k),
		},
	); err != nil {
		return "", err
	}

	return v, nil
}

func (m *objectMapping) RangeKeys(ctx context.Context, fn mapping.KeyFunc) error {
	keys, err := m.keys(ctx)
	if err != nil {
		return err
	}

	for _, k := range keys {
		ok, err := fn(ctx, k)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

func (m *objectMapping) Range(ctx context.Context, fn mapping.RangeFunc) error {
	keys, err := m.keys(ctx)
	if err != nil {
		return err
	}

	for _, k := range keys {
		v, ok, err := m.get(ctx, k)
		if err != nil {
			return fmt.Errorf("unable to read %q from the %q mapping: %w", k, m.name, err)
		}

		if !ok {
			continue
		}

		ok, err = fn(ctx, k, v)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

func (m *objectMapping) Keys(ctx context.Context) ([]string, error) {
	return m.keys(ctx)
}

func (m *objectMapping) Values(ctx context.Context) ([]string, error) {
	return mapping.CollectValues(ctx, m)
}

func (m *objectMapping) Clear(ctx context.Context) (err error) {
	defer xerrors.Wrap(&err, "unable to clear the %q mapping", m.name)

	var objectKeys []string

	if err := s3x.ListKeys(
		ctx,
		m.client,
		m.onRequest,
		m.listRequest(),
		func(objectKey string) bool {
			objectKeys = append(objectKeys, objectKey)
			return true
		},
	); err != nil {
		return err
	}

	return s3x.DeleteObjects(ctx, m.client, m.bucket, m.onRequest, objectKeys)
}

func (m *objectMapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.GetOrDefault(ctx, m, k, def)
}

func (m *objectMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.PopOrDefault(ctx, m, k, def)
}

// SetIfAbsent uses a conditional write so that concurrent callers agree on
// which value was stored.
func (m *objectMapping) SetIfAbsent(ctx context.Context, k, def string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	for {
		req := m.putRequest(k, def)
		req.IfNoneMatch = aws.String("*")

		_, err := awsx.Do(
			ctx,
			m.client.PutObject,
			m.onRequest,
			req,
		)
		if err == nil {
			return def, nil
		}

		if !s3x.IsConflict(err) {
			return "", err
		}

		v, ok, err := m.get(ctx, k)
		if err != nil {
			return "", err
		}

		if ok {
			return v, nil
		}

		// The object was deleted after the conditional write failed, try
		// again.
	}
}

// keys returns the keys of all entries in the mapping, in the lexical order of
// their object keys.
func (m *objectMapping) keys(ctx context.Context) (keys []string, err error) {
	defer xerrors.Wrap(&err, "unable to list the keys in the %q mapping", m.name)

	var keyErr error

	if err := s3x.ListKeys(
		ctx,
		m.client,
		m.onRequest,
		m.listRequest(),
		func(objectKey string) bool {
			k, err := m.keyFromObjectKey(objectKey)
			if err != nil {
				keyErr = err
				return false
			}

			keys = append(keys, k)
			return true
		},
	); err != nil {
		return nil, err
	}

	return keys, keyErr
}

func (m *objectMapping) objectKey(k string) *string {
	return aws.String(m.objectKeyPrefix + url.PathEscape(k))
}

func (m *objectMapping) keyFromObjectKey(objectKey string) (string, error) {
	k, err := url.PathUnescape(
		strings.TrimPrefix(objectKey, m.objectKeyPrefix),
	)
	if err != nil {
		return "", fmt.Errorf("object %q has a malformed key: %w", objectKey, err)
	}
	return k, nil
}

func (m *objectMapping) listRequest() *s3.ListObjectsV2Input {
	return &s3.ListObjectsV2Input{
		Bucket: &m.bucket,
		Prefix: aws.String(m.objectKeyPrefix),
	}
}

func (m *objectMapping) putRequest(k, v string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:        &m.bucket,
		Key:           m.objectKey(k),
		ContentType:   aws.String("text/plain; charset=utf-8"),
		ContentLength: aws.Int64(int64(len(v))),
		Body:          strings.NewReader(v),
	}
}
