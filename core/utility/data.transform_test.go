package utility

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDateMilli(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		got, err := ParseDateMilli("2026-03-15T10:30:00+07:00")
		assert.NoError(t, err)
		want := time.Date(2026, 3, 15, 10, 30, 0, 0, time.FixedZone("", 7*3600)).UnixMilli()
		assert.Equal(t, want, got)
	})

	t.Run("ngày không có timezone", func(t *testing.T) {
		got, err := ParseDateMilli("2026-03-15")
		assert.NoError(t, err)
		want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
		assert.Equal(t, want, got)
	})

	t.Run("chuỗi rỗng trả về 0", func(t *testing.T) {
		got, err := ParseDateMilli("   ")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("chuỗi không hợp lệ", func(t *testing.T) {
		_, err := ParseDateMilli("hôm qua")
		assert.Error(t, err)
	})
}

func TestDayStartMilli(t *testing.T) {
	loc := time.UTC
	noon := time.Date(2026, 8, 28, 12, 45, 30, 0, loc)
	got := DayStartMilli(noon.UnixMilli(), loc)
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, loc).UnixMilli()
	assert.Equal(t, want, got)

	// Mốc 00:00 của chính nó
	assert.Equal(t, want, DayStartMilli(want, loc))
}

func TestP2Int64(t *testing.T) {
	assert.Equal(t, int64(42), P2Int64("42"))
	assert.Equal(t, int64(42), P2Int64(json.Number("42")))
	assert.Equal(t, int64(42), P2Int64(int64(42)))
	assert.Equal(t, int64(42), P2Int64(42))
	assert.Equal(t, int64(42), P2Int64(float64(42.9)))
	assert.Equal(t, int64(0), P2Int64("abc"))
	assert.Equal(t, int64(0), P2Int64(nil))
}

func TestObjectIDsFromHex(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	t.Run("bỏ qua phần tử rỗng", func(t *testing.T) {
		ids, err := ObjectIDsFromHex([]string{a.Hex(), "", "  ", b.Hex()})
		assert.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{a, b}, ids)
	})

	t.Run("lỗi khi có hex không hợp lệ", func(t *testing.T) {
		_, err := ObjectIDsFromHex([]string{a.Hex(), "xyz"})
		assert.Error(t, err)
	})
}
