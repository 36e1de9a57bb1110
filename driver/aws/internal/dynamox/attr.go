package dynamox

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StringAttr returns the value of the string attribute with the given name.
//
// It returns an error if the attribute is missing or is not a string, which
// indicates that the item was not written by this module.
func StringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	switch a := item[name].(type) {
	case *types.AttributeValueMemberS:
		return a.Value, nil
	case nil:
		return "", fmt.Errorf("malformed item: no %q attribute", name)
	default:
		return "", fmt.Errorf("malformed item: %q attribute is %T, expected a string", name, a)
	}
}
