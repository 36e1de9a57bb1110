package dynamomap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/dirmap/driver/aws/internal/dynamox"
)

var (
	// mappingAttr is the name of the attribute that stores the mapping name on
	// each item. Together with [keyAttr], it forms the primary key of the
	// table.
	mappingAttr = "M"

	// keyAttr is the name of the attribute that stores the key on each item.
	// Together with [mappingAttr], it forms the primary key of the table.
	keyAttr = "K"

	// valueAttr is the name of the attribute that stores the value on each
	// item.
	valueAttr = "V"
)

// createTable creates the DynamoDB table if it does not already exist.
func (s *store) createTable(ctx context.Context) error {
	return dynamox.CreateTableIfNotExists(
		ctx,
		s.Client,
		s.Table,
		s.OnRequest,
		dynamox.KeyAttr{
			Name:    &mappingAttr,
			Type:    types.ScalarAttributeTypeS,
			KeyType: types.KeyTypeHash,
		},
		dynamox.KeyAttr{
			Name:    &keyAttr,
			Type:    types.ScalarAttributeTypeS,
			KeyType: types.KeyTypeRange,
		},
	)
}

// primaryKey returns the primary key of the item for k.
func (m *itemMapping) primaryKey(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		mappingAttr: &types.AttributeValueMemberS{Value: m.name},
		keyAttr:     &types.AttributeValueMemberS{Value: k},
	}
}

// getRequest fetches the value associated with k.
func (m *itemMapping) getRequest(k string) *dynamodb.GetItemInput {
	return &dynamodb.GetItemInput{
		TableName:            &m.table,
		Key:                  m.primaryKey(k),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(`#V`),
		ExpressionAttributeNames: map[string]string{
			"#V": valueAttr,
		},
	}
}

// hasRequest fetches only the key of the item for k, to check if it exists
// without fetching its value.
func (m *itemMapping) hasRequest(k string) *dynamodb.GetItemInput {
	return &dynamodb.GetItemInput{
		TableName:            &m.table,
		Key:                  m.primaryKey(k),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(`#K`),
		ExpressionAttributeNames: map[string]string{
			"#K": keyAttr,
		},
	}
}

// queryRequest fetches the items in the mapping, projecting the given
// attributes.
func (m *itemMapping) queryRequest(attrs ...string) *dynamodb.QueryInput {
	in := &dynamodb.QueryInput{
		TableName:              &m.table,
		ConsistentRead:         aws.Bool(true),
		KeyConditionExpression: aws.String(`#M = :M`),
		ExpressionAttributeNames: map[string]string{
			"#M": mappingAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":M": &types.AttributeValueMemberS{Value: m.name},
		},
	}

	var projection []string
	for _, attr := range attrs {
		placeholder := "#" + attr
		in.ExpressionAttributeNames[placeholder] = attr
		projection = append(projection, placeholder)
	}

	if len(projection) != 0 {
		in.ProjectionExpression = aws.String(strings.Join(projection, ", "))
	}

	return in
}

// putRequest sets the value associated with k to v.
func (m *itemMapping) putRequest(k, v string) *dynamodb.PutItemInput {
	item := m.primaryKey(k)
	item[valueAttr] = &types.AttributeValueMemberS{Value: v}

	return &dynamodb.PutItemInput{
		TableName: &m.table,
		Item:      item,
	}
}

// deleteRequest removes the item for k, returning its attributes.
func (m *itemMapping) deleteRequest(k string) *dynamodb.DeleteItemInput {
	return &dynamodb.DeleteItemInput{
		TableName:    &m.table,
		Key:          m.primaryKey(k),
		ReturnValues: types.ReturnValueAllOld,
	}
}
