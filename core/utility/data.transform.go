package utility

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các format ngày chấp nhận từ client, thử theo thứ tự
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ObjectIDFromHex convert string → primitive.ObjectID
func ObjectIDFromHex(value string) (primitive.ObjectID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return primitive.NilObjectID, fmt.Errorf("id rỗng")
	}
	objID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("không thể convert '%s' sang ObjectID: %w", value, err)
	}
	return objID, nil
}

// ObjectIDsFromHex convert danh sách hex string → []primitive.ObjectID
// Bỏ qua phần tử rỗng, lỗi nếu có phần tử không hợp lệ
func ObjectIDsFromHex(values []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		id, err := ObjectIDFromHex(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseDateMilli parse chuỗi ngày từ client sang int64 UnixMilli.
// Chuỗi rỗng trả về 0 (không có ngày).
func ParseDateMilli(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("không thể parse ngày '%s'", value)
}

// P2Int64 chuyển giá trị bất kỳ (string, json.Number, số) sang int64, lỗi trả về 0
func P2Int64(input interface{}) int64 {
	switch v := input.(type) {
	case string:
		result, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return result
	case json.Number:
		result, err := v.Int64()
		if err != nil {
			return 0
		}
		return result
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// DayStartMilli trả về mốc 00:00 local của ngày chứa timestamp
func DayStartMilli(ms int64, loc *time.Location) int64 {
	t := time.UnixMilli(ms).In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start.UnixMilli()
}
