package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct thành map[string]interface{} qua BSON marshal,
// giữ nguyên tên field theo bson tag
func ToMap(data interface{}) (map[string]interface{}, error) {
	if data == nil {
		return nil, fmt.Errorf("data là nil")
	}

	if m, ok := data.(map[string]interface{}); ok {
		return m, nil
	}
	if m, ok := data.(bson.M); ok {
		return map[string]interface{}(m), nil
	}

	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("không thể marshal data: %w", err)
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("không thể unmarshal data: %w", err)
	}

	return result, nil
}
