package services

import (
	"context"
	"fmt"
	"time"

	"field_crm/core/api/dto"
	models "field_crm/core/api/models/mongodb"
	"field_crm/core/common"
	"field_crm/core/global"
	"field_crm/core/logger"
	"field_crm/core/notification"
	"field_crm/core/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryService quản lý các entry trong pipeline bán hàng.
// Mọi thao tác đọc/ghi đều đi qua scope của actor, không có đường tắt.
type EntryService struct {
	*BaseServiceMongoImpl[models.Entry]
	userService  *UserService
	scopeService *ScopeService
}

// NewEntryService tạo mới EntryService
func NewEntryService() (*EntryService, error) {
	entryCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Entries)
	if !exist {
		return nil, fmt.Errorf("failed to get entries collection: %s", global.MongoDB_ColNames.Entries)
	}
	userService, err := NewUserService()
	if err != nil {
		return nil, err
	}
	scopeService, err := NewScopeService()
	if err != nil {
		return nil, err
	}
	return &EntryService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Entry](entryCollection),
		userService:          userService,
		scopeService:         scopeService,
	}, nil
}

// ==================
// CREATE
// ==================

// Create tạo entry mới: validate số điện thoại, chuẩn hóa products,
// ghi snapshot đầu tiên vào history và trả về intents cho các user được gắn.
func (s *EntryService) Create(ctx context.Context, actor Actor, input *dto.EntryCreateInput) (models.Entry, []notification.Intent, error) {
	var zero models.Entry
	log := logger.WithModule("entry")

	if err := s.ValidatePhoneNumber(ctx, actor.ID, input.MobileNumber); err != nil {
		return zero, nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusNotFound
	}
	if !models.IsValidStatus(status) {
		return zero, nil, common.ErrInvalidStatus
	}

	firstdate, err := utility.ParseDateMilli(input.Firstdate)
	if err != nil {
		return zero, nil, common.ErrInvalidFormat
	}
	followUpDate, err := utility.ParseDateMilli(input.FollowUpDate)
	if err != nil {
		return zero, nil, common.ErrInvalidFormat
	}
	expectedClosingDate, err := utility.ParseDateMilli(input.ExpectedClosingDate)
	if err != nil {
		return zero, nil, common.ErrInvalidFormat
	}

	assignedTo, err := s.resolveAssignees(ctx, actor, input.AssignedTo)
	if err != nil {
		return zero, nil, err
	}

	entry := models.Entry{
		CustomerName:        input.CustomerName,
		CustomerEmail:       input.CustomerEmail,
		MobileNumber:        input.MobileNumber,
		ContactPerson:       input.ContactPerson,
		Firstdate:           firstdate,
		Address:             input.Address,
		State:               input.State,
		City:                input.City,
		Organization:        input.Organization,
		Category:            input.Category,
		Type:                input.Type,
		EstimatedValue:      input.EstimatedValue,
		Products:            models.NormalizeProducts(toProducts(input.Products)),
		Status:              status,
		FollowUpDate:        followUpDate,
		ExpectedClosingDate: expectedClosingDate,
		Remarks:             input.Remarks,
		LiveLocation:        input.LiveLocation,
		NextAction:          input.NextAction,
		FirstPersonMeet:     input.FirstPersonMeet,
		SecondPersonMeet:    input.SecondPersonMeet,
		ThirdPersonMeet:     input.ThirdPersonMeet,
		FourthPersonMeet:    input.FourthPersonMeet,
		AttachmentPath:      input.AttachmentPath,
		CreatedBy:           actor.ID,
		AssignedTo:          assignedTo,
	}

	// Snapshot khởi tạo: trạng thái đầy đủ tại thời điểm tạo
	remarks := entry.Remarks
	if remarks == "" {
		remarks = "Entry created"
	}
	entry.AppendHistory(BuildSnapshot(&entry, remarks, time.Now().UnixMilli()))

	created, err := s.InsertOne(ctx, entry)
	if err != nil {
		return zero, nil, err
	}

	// Người tạo nhận thông báo xác nhận, các user được gắn nhận thông báo riêng.
	// Actor tự gắn mình thì nhận cả hai.
	intents := notification.FanOut([]primitive.ObjectID{actor.ID},
		fmt.Sprintf("New entry created: %s", created.CustomerName),
		&created.ID)
	intents = append(intents, notification.FanOut(created.AssignedTo,
		fmt.Sprintf("Tagged in new entry: %s by %s", created.CustomerName, actor.Username),
		&created.ID)...)

	log.WithFields(logrus.Fields{
		"entryId":  created.ID.Hex(),
		"customer": created.CustomerName,
		"actor":    actor.Username,
	}).Info("📋 [ENTRY] Entry created")

	return created, intents, nil
}

// ==================
// UPDATE
// ==================

// Update sửa entry theo tập field đóng của EntryUpdateInput.
// Chuỗi rule thay đổi quyết định history: rule đầu tiên khớp cấp remark mặc định,
// mọi rule khớp cùng ghi chung MỘT snapshot đầy đủ trạng thái.
func (s *EntryService) Update(ctx context.Context, actor Actor, entryID primitive.ObjectID, input *dto.EntryUpdateInput) (models.Entry, []notification.Intent, error) {
	var zero models.Entry
	log := logger.WithModule("entry")

	old, err := s.findVisible(ctx, actor, entryID)
	if err != nil {
		return zero, nil, err
	}

	next := old
	next.Products = append([]models.Product(nil), old.Products...)
	next.AssignedTo = append([]primitive.ObjectID(nil), old.AssignedTo...)
	next.History = append([]models.HistorySnapshot(nil), old.History...)

	if err := s.applyUpdateInput(ctx, actor, input, &next); err != nil {
		return zero, nil, err
	}

	if !models.IsValidStatus(next.Status) {
		return zero, nil, common.ErrInvalidStatus
	}
	if !models.IsValidCloseType(next.Closetype) {
		return zero, nil, common.ErrInvalidOperation
	}
	// Đổi trạng thái bắt buộc gửi kèm vị trí hiện tại
	if old.Status != next.Status && (input.LiveLocation == nil || *input.LiveLocation == "") {
		return zero, nil, common.ErrMissingLiveLocation
	}

	fired, defaultRemark := EvaluateChanges(&old, &next)
	if len(fired) > 0 {
		remarks := defaultRemark
		if input.Remarks != nil && *input.Remarks != "" {
			remarks = *input.Remarks
		}
		next.AppendHistory(BuildSnapshot(&next, remarks, time.Now().UnixMilli()))
	}

	// Thay toàn bộ document: field bị xóa về zero value cũng phải được ghi xuống DB,
	// $set không thể hiện được vì field omitempty biến mất khỏi map
	updated, err := s.ReplaceById(ctx, entryID, next)
	if err != nil {
		return zero, nil, err
	}

	intents := s.updateIntents(actor, &old, &updated, fired)

	log.WithFields(logrus.Fields{
		"entryId": entryID.Hex(),
		"changes": fired,
		"actor":   actor.Username,
	}).Info("📋 [ENTRY] Entry updated")

	return updated, intents, nil
}

// applyUpdateInput ghi các field client gửi lên vào next. Pointer nil = giữ nguyên.
func (s *EntryService) applyUpdateInput(ctx context.Context, actor Actor, input *dto.EntryUpdateInput, next *models.Entry) error {
	if input.CustomerName != nil {
		next.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		next.CustomerEmail = *input.CustomerEmail
	}
	if input.MobileNumber != nil && *input.MobileNumber != next.MobileNumber {
		if err := s.ValidatePhoneNumber(ctx, actor.ID, *input.MobileNumber); err != nil {
			return err
		}
		next.MobileNumber = *input.MobileNumber
	}
	if input.ContactPerson != nil {
		next.ContactPerson = *input.ContactPerson
	}
	if input.Firstdate != nil {
		ms, err := utility.ParseDateMilli(*input.Firstdate)
		if err != nil {
			return common.ErrInvalidFormat
		}
		next.Firstdate = ms
	}
	if input.Address != nil {
		next.Address = *input.Address
	}
	if input.State != nil {
		next.State = *input.State
	}
	if input.City != nil {
		next.City = *input.City
	}
	if input.Organization != nil {
		next.Organization = *input.Organization
	}
	if input.Category != nil {
		next.Category = *input.Category
	}
	if input.Type != nil {
		next.Type = *input.Type
	}
	if input.EstimatedValue != nil {
		next.EstimatedValue = *input.EstimatedValue
	}
	if input.CloseAmount != nil {
		next.CloseAmount = *input.CloseAmount
	}
	// Closetype chỉ đổi khi client gửi tường minh, không tự xóa khi status rời Closed
	if input.Closetype != nil {
		next.Closetype = *input.Closetype
	}
	if input.Products != nil {
		next.Products = models.NormalizeProducts(toProducts(*input.Products))
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.FollowUpDate != nil {
		ms, err := utility.ParseDateMilli(*input.FollowUpDate)
		if err != nil {
			return common.ErrInvalidFormat
		}
		next.FollowUpDate = ms
	}
	if input.ExpectedClosingDate != nil {
		ms, err := utility.ParseDateMilli(*input.ExpectedClosingDate)
		if err != nil {
			return common.ErrInvalidFormat
		}
		next.ExpectedClosingDate = ms
	}
	if input.Remarks != nil {
		next.Remarks = *input.Remarks
	}
	if input.LiveLocation != nil {
		next.LiveLocation = *input.LiveLocation
	}
	if input.NextAction != nil {
		next.NextAction = *input.NextAction
	}
	if input.FirstPersonMeet != nil {
		next.FirstPersonMeet = *input.FirstPersonMeet
	}
	if input.SecondPersonMeet != nil {
		next.SecondPersonMeet = *input.SecondPersonMeet
	}
	if input.ThirdPersonMeet != nil {
		next.ThirdPersonMeet = *input.ThirdPersonMeet
	}
	if input.FourthPersonMeet != nil {
		next.FourthPersonMeet = *input.FourthPersonMeet
	}
	if input.AttachmentPath != nil {
		next.AttachmentPath = *input.AttachmentPath
	}
	if input.AssignedTo != nil {
		assignedTo, err := s.resolveAssignees(ctx, actor, *input.AssignedTo)
		if err != nil {
			return err
		}
		next.AssignedTo = assignedTo
	}
	return nil
}

// updateIntents dựng thông báo sau khi update:
// user mới được gắn và user bị gỡ nhận thông báo riêng; khi có thay đổi đáng
// ghi history, creator và MỌI assignee hiện tại nhận thông báo chung,
// kể cả actor. Một user vừa đổi gán vừa là assignee hiện tại nhận hai thông báo,
// các message khác loại không khử trùng lẫn nhau.
func (s *EntryService) updateIntents(actor Actor, old, updated *models.Entry, fired []string) []notification.Intent {
	var intents []notification.Intent

	added, removed := utility.DiffObjectIDs(old.AssignedTo, updated.AssignedTo)
	intents = append(intents, notification.FanOut(added,
		fmt.Sprintf("Tagged in entry: %s by %s", updated.CustomerName, actor.Username),
		&updated.ID)...)
	intents = append(intents, notification.FanOut(removed,
		fmt.Sprintf("Removed from entry: %s by %s", updated.CustomerName, actor.Username),
		&updated.ID)...)

	if len(fired) > 0 {
		general := make([]primitive.ObjectID, 0, 1+len(updated.AssignedTo))
		general = append(general, updated.CreatedBy)
		general = append(general, updated.AssignedTo...)
		intents = append(intents, notification.FanOut(general,
			fmt.Sprintf("Entry updated: %s by %s", updated.CustomerName, actor.Username),
			&updated.ID)...)
	}

	return intents
}

// ==================
// READ / DELETE
// ==================

// GetById trả về entry nếu nằm trong scope của actor
func (s *EntryService) GetById(ctx context.Context, actor Actor, entryID primitive.ObjectID) (models.Entry, error) {
	return s.findVisible(ctx, actor, entryID)
}

// List trả về danh sách entry trong scope, phân trang, mới sửa trước
func (s *EntryService) List(ctx context.Context, actor Actor, query *dto.EntryListQuery) (*PaginateResult[models.Entry], error) {
	scope, err := s.scopeService.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := EntryFilter(scope)
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.State != "" {
		filter["state"] = query.State
	}
	if query.City != "" {
		filter["city"] = query.City
	}

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, query.Page, query.Limit, opts)
}

// Delete xóa entry nếu nằm trong scope của actor
func (s *EntryService) Delete(ctx context.Context, actor Actor, entryID primitive.ObjectID) error {
	if _, err := s.findVisible(ctx, actor, entryID); err != nil {
		return err
	}
	if err := s.DeleteById(ctx, entryID); err != nil {
		return err
	}
	logger.WithModule("entry").WithFields(logrus.Fields{
		"entryId": entryID.Hex(),
		"actor":   actor.Username,
	}).Info("📋 [ENTRY] Entry deleted")
	return nil
}

// ==================
// HELPERS
// ==================

// findVisible tìm entry theo id và kiểm tra scope. Ngoài scope trả về ErrOutOfScope.
func (s *EntryService) findVisible(ctx context.Context, actor Actor, entryID primitive.ObjectID) (models.Entry, error) {
	var zero models.Entry
	entry, err := s.FindOneById(ctx, entryID)
	if err != nil {
		return zero, err
	}
	scope, err := s.scopeService.ResolveScope(ctx, actor)
	if err != nil {
		return zero, err
	}
	if !EntryVisible(scope, &entry) {
		return zero, common.ErrOutOfScope
	}
	return entry, nil
}

// resolveAssignees chuyển id dạng chuỗi thành ObjectID, khử trùng và
// kiểm tra mọi id đều nằm trong tập user actor được phép gắn.
func (s *EntryService) resolveAssignees(ctx context.Context, actor Actor, raw []string) ([]primitive.ObjectID, error) {
	ids, err := utility.ObjectIDsFromHex(raw)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	ids = utility.DedupeObjectIDs(ids)
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}

	taggable, err := s.scopeService.TaggableUsers(ctx, actor)
	if err != nil {
		return nil, err
	}
	allowed := make(map[primitive.ObjectID]struct{}, len(taggable))
	for _, u := range taggable {
		allowed[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := allowed[id]; !ok {
			return nil, common.ErrOutOfScope
		}
	}
	return ids, nil
}

// toProducts chuyển DTO sản phẩm sang model
func toProducts(inputs []dto.ProductInput) []models.Product {
	products := make([]models.Product, 0, len(inputs))
	for _, p := range inputs {
		products = append(products, models.Product{
			Name:          p.Name,
			Specification: p.Specification,
			Size:          p.Size,
			Quantity:      p.Quantity,
		})
	}
	return products
}
