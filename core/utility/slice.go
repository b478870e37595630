package utility

import "go.mongodb.org/mongo-driver/bson/primitive"

// ContainsObjectID kiểm tra id có trong danh sách không
func ContainsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// DedupeObjectIDs loại bỏ id trùng, giữ nguyên thứ tự xuất hiện đầu tiên
func DedupeObjectIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DiffObjectIDs so sánh hai danh sách id, trả về các id được thêm và bị gỡ
func DiffObjectIDs(before, after []primitive.ObjectID) (added, removed []primitive.ObjectID) {
	beforeSet := make(map[primitive.ObjectID]struct{}, len(before))
	for _, id := range before {
		beforeSet[id] = struct{}{}
	}
	afterSet := make(map[primitive.ObjectID]struct{}, len(after))
	for _, id := range after {
		afterSet[id] = struct{}{}
	}
	for _, id := range after {
		if _, ok := beforeSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := afterSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// EqualObjectIDSets so sánh hai danh sách id theo tập hợp (không quan tâm thứ tự)
func EqualObjectIDSets(a, b []primitive.ObjectID) bool {
	added, removed := DiffObjectIDs(a, b)
	return len(added) == 0 && len(removed) == 0
}
