package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitValidator khởi tạo validator và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("objectid", validateObjectID)
}

// validateObjectID kiểm tra chuỗi có phải hex ObjectID hợp lệ không.
// Chuỗi rỗng pass để omitempty quyết định tính bắt buộc.
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}
