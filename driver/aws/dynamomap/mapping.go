package dynamomap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
	"github.com/dogmatiq/dirmap/driver/aws/internal/dynamox"
	"github.com/dogmatiq/dirmap/internal/x/xerrors"
	"github.com/dogmatiq/dirmap/mapping"
)

// itemMapping is an implementation of [mapping.Mapping] that stores each entry
// as an item in a DynamoDB table. All reads are strongly consistent.
type itemMapping struct {
	client    *dynamodb.Client
	onRequest func(any) []func(*dynamodb.Options)
	table     string
	name      string
}

func (m *itemMapping) Name() string {
	return m.name
}

func (m *itemMapping) Len(ctx context.Context) (n int, err error) {
	defer xerrors.Wrap(&err, "unable to count the entries in the %q mapping", m.name)

	return dynamox.Count(
		ctx,
		m.client,
		m.onRequest,
		m.queryRequest(),
	)
}

func (m *itemMapping) Get(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to get %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	out, err := awsx.Do(
		ctx,
		m.client.GetItem,
		m.onRequest,
		m.getRequest(k),
	)
	if err != nil {
		return "", err
	}

	if out.Item == nil {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return dynamox.StringAttr(out.Item, valueAttr)
}

func (m *itemMapping) Has(ctx context.Context, k string) (ok bool, err error) {
	defer xerrors.Wrap(&err, "unable to check for %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return false, err
	}

	out, err := awsx.Do(
		ctx,
		m.client.GetItem,
		m.onRequest,
		m.hasRequest(k),
	)
	if err != nil {
		return false, err
	}

	return out.Item != nil, nil
}

func (m *itemMapping) Set(ctx context.Context, k, v string) (err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return err
	}

	_, err = awsx.Do(
		ctx,
		m.client.PutItem,
		m.onRequest,
		m.putRequest(k, v),
	)

	return err
}

func (m *itemMapping) Delete(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to delete %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	out, err := awsx.Do(
		ctx,
		m.client.DeleteItem,
		m.onRequest,
		m.deleteRequest(k),
	)
	if err != nil {
		return "", err
	}

	if len(out.Attributes) == 0 {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return dynamox.StringAttr(out.Attributes, valueAttr)
}

func (m *itemMapping) RangeKeys(ctx context.Context, fn mapping.KeyFunc) error {
	keys, err := m.Keys(ctx)
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

// Range reads every pair before the first call to fn, so that fn observes a
// consistent snapshot even if it modifies the mapping.
func (m *itemMapping) Range(ctx context.Context, fn mapping.RangeFunc) error {
	type pair struct{ Key, Value string }
	var pairs []pair

	if err := dynamox.Range(
		ctx,
		m.client,
		m.onRequest,
		m.queryRequest(keyAttr, valueAttr),
		func(_ context.Context, item map[string]types.AttributeValue) (bool, error) {
			k, err := dynamox.StringAttr(item, keyAttr)
			if err != nil {
				return false, err
			}

			v, err := dynamox.StringAttr(item, valueAttr)
			if err != nil {
				return false, err
			}

			pairs = append(pairs, pair{k, v})
			return true, nil
		},
	); err != nil {
		return fmt.Errorf("unable to range over the entries in the %q mapping: %w", m.name, err)
	}

	for _, p := range pairs {
		ok, err := fn(ctx, p.Key, p.Value)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

func (m *itemMapping) Keys(ctx context.Context) (keys []string, err error) {
	defer xerrors.Wrap(&err, "unable to list the keys in the %q mapping", m.name)

	err = dynamox.Range(
		ctx,
		m.client,
		m.onRequest,
		m.queryRequest(keyAttr),
		func(_ context.Context, item map[string]types.AttributeValue) (bool, error) {
			k, err := dynamox.StringAttr(item, keyAttr)
			if err != nil {
				return false, err
			}

			keys = append(keys, k)
			return true, nil
		},
	)

	return keys, err
}

func (m *itemMapping) Values(ctx context.Context) ([]string, error) {
	return mapping.CollectValues(ctx, m)
}

func (m *itemMapping) Clear(ctx context.Context) (err error) {
	defer xerrors.Wrap(&err, "unable to clear the %q mapping", m.name)

	keys, err := m.Keys(ctx)
	if err != nil {
		return err
	}

	primaryKeys := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		primaryKeys = append(primaryKeys, m.primaryKey(k))
	}

	return dynamox.BatchDelete(
		ctx,
		m.client,
		m.table,
		m.onRequest,
		primaryKeys,
	)
}

func (m *itemMapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.GetOrDefault(ctx, m, k, def)
}

func (m *itemMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.PopOrDefault(ctx, m, k, def)
}

// SetIfAbsent uses a conditional write so that concurrent callers agree on
// which value was stored.
func (m *itemMapping) SetIfAbsent(ctx context.Context, k, def string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	for {
		req := m.putRequest(k, def)
		req.ConditionExpression = aws.String(`attribute_not_exists(#K)`)
		req.ExpressionAttributeNames = map[string]string{
			"#K": keyAttr,
		}
		req.ReturnValuesOnConditionCheckFailure = types.ReturnValuesOnConditionCheckFailureAllOld

		_, err := awsx.Do(
			ctx,
			m.client.PutItem,
			m.onRequest,
			req,
		)
		if err == nil {
			return def, nil
		}

		var conflict *types.ConditionalCheckFailedException
		if !errors.As(err, &conflict) {
			return "", err
		}

		if len(conflict.Item) != 0 {
			return dynamox.StringAttr(conflict.Item, valueAttr)
		}

		v, err := m.Get(ctx, k)
		if !mapping.IsNotFound(err) {
			return v, err
		}

		// The item was deleted after the conditional write failed, try again.
	}
}
