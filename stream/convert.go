package stream

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/writeall/batchwrite"
)

// ConvertStreamKey converts a DynamoDB stream key to a batchwrite.PK.
func ConvertStreamKey(streamKey map[string]events.DynamoDBAttributeValue) batchwrite.PK {
	return batchwrite.PK(ConvertStreamImage(streamKey))
}

// ConvertStreamImage converts a stream image to an SDK item.
// Attributes of unknown type are dropped.
func ConvertStreamImage(image map[string]events.DynamoDBAttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue, len(image))
	for k, v := range image {
		if av := convertValue(v); av != nil {
			result[k] = av
		}
	}
	return result
}

func convertValue(v events.DynamoDBAttributeValue) types.AttributeValue {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, item := range v.List() {
			if av := convertValue(item); av != nil {
				list = append(list, av)
			}
		}
		return &types.AttributeValueMemberL{Value: list}
	case events.DataTypeMap:
		return &types.AttributeValueMemberM{Value: ConvertStreamImage(v.Map())}
	}
	return nil
}

// KeyFingerprint returns a stable string identifying a stream key, usable
// as a map key. Attribute order does not matter.
func KeyFingerprint(key map[string]events.DynamoDBAttributeValue) string {
	names := make([]string, 0, len(key))
	for name := range key {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		v := key[name]
		switch v.DataType() {
		case events.DataTypeString:
			fmt.Fprintf(&b, "%s=S:%q;", name, v.String())
		case events.DataTypeNumber:
			fmt.Fprintf(&b, "%s=N:%s;", name, v.Number())
		case events.DataTypeBinary:
			fmt.Fprintf(&b, "%s=B:%x;", name, v.Binary())
		default:
			fmt.Fprintf(&b, "%s=?;", name)
		}
	}
	return b.String()
}
