package services

import (
	"context"

	"field_crm/core/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidatePhoneNumber kiểm tra số điện thoại khách hàng:
// đủ 10 chữ số và không trùng với số của chính người tạo entry.
func (s *EntryService) ValidatePhoneNumber(ctx context.Context, actorID primitive.ObjectID, mobileNumber string) error {
	if !isTenDigits(mobileNumber) {
		return common.ErrInvalidPhoneNumber
	}
	actor, err := s.userService.FindOneById(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.PhoneNumber != "" && actor.PhoneNumber == mobileNumber {
		return common.ErrOwnPhoneNumber
	}
	return nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
