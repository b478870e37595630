package services

import (
	"context"
	"fmt"

	models "field_crm/core/api/models/mongodb"
	"field_crm/core/common"
	"field_crm/core/logger"
	"field_crm/core/notification"
	"field_crm/core/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor là danh tính đã xác thực đang thực hiện thao tác.
// Middleware auth dựng Actor từ JWT claims, service chỉ authorize, không authenticate.
type Actor struct {
	ID       primitive.ObjectID
	Role     string
	Username string
}

// Scope là phạm vi quyền của một actor tại thời điểm gọi.
// Không bao giờ cache qua request: mỗi mutation re-derive lại scope.
type Scope struct {
	UserIDs    []primitive.ObjectID // Các user actor được thấy
	AllEntries bool                 // true với superadmin: thấy mọi entry
}

// Contains kiểm tra một user có trong scope không
func (s Scope) Contains(userID primitive.ObjectID) bool {
	return s.AllEntries || utility.ContainsObjectID(s.UserIDs, userID)
}

// ScopeService giải quyết phạm vi quyền theo cây phân công admin
// và thực hiện các mutation phân công (assign/unassign) kèm lan truyền subtree.
type ScopeService struct {
	userService *UserService
}

// NewScopeService tạo mới ScopeService
func NewScopeService() (*ScopeService, error) {
	userService, err := NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	return &ScopeService{userService: userService}, nil
}

// ==================
// VISIBILITY RESOLVER
// ==================

// ResolveScope tính phạm vi user-id mà actor được thấy.
//   - superadmin: tất cả
//   - admin: bản thân + báo cáo trực tiếp + báo cáo của các báo cáo trực tiếp là admin (2 hop, khử trùng)
//   - others: chỉ bản thân
func (s *ScopeService) ResolveScope(ctx context.Context, actor Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperadmin:
		return Scope{AllEntries: true}, nil

	case models.RoleAdmin:
		directs, err := s.userService.FindDirectReports(ctx, actor.ID)
		if err != nil {
			return Scope{}, err
		}

		// Hop thứ hai: báo cáo của các direct report có vai trò admin
		adminDirectIDs := make([]primitive.ObjectID, 0)
		for _, u := range directs {
			if u.IsAdmin() {
				adminDirectIDs = append(adminDirectIDs, u.ID)
			}
		}
		second, err := s.userService.FindReportsOfAdmins(ctx, adminDirectIDs)
		if err != nil {
			return Scope{}, err
		}

		return Scope{UserIDs: combineScopeIDs(actor.ID, directs, second)}, nil

	default:
		return Scope{UserIDs: []primitive.ObjectID{actor.ID}}, nil
	}
}

// combineScopeIDs gộp actor + hai hop báo cáo thành một danh sách id khử trùng
func combineScopeIDs(actorID primitive.ObjectID, directs, second []models.User) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, 1+len(directs)+len(second))
	ids = append(ids, actorID)
	for _, u := range directs {
		ids = append(ids, u.ID)
	}
	for _, u := range second {
		ids = append(ids, u.ID)
	}
	return utility.DedupeObjectIDs(ids)
}

// EntryVisible kiểm tra một entry có nằm trong scope không:
// createdBy hoặc assignedTo giao với scope, hoặc scope là toàn cục
func EntryVisible(scope Scope, entry *models.Entry) bool {
	if scope.AllEntries {
		return true
	}
	if utility.ContainsObjectID(scope.UserIDs, entry.CreatedBy) {
		return true
	}
	for _, assignee := range entry.AssignedTo {
		if utility.ContainsObjectID(scope.UserIDs, assignee) {
			return true
		}
	}
	return false
}

// EntryFilter dựng filter MongoDB cho các entry trong scope
func EntryFilter(scope Scope) bson.M {
	if scope.AllEntries {
		return bson.M{}
	}
	return bson.M{
		"$or": []bson.M{
			{"createdBy": bson.M{"$in": scope.UserIDs}},
			{"assignedTo": bson.M{"$in": scope.UserIDs}},
		},
	}
}

// ==================
// USER LISTING THEO SCOPE
// ==================

// VisibleUsers trả về các user trong scope của actor
func (s *ScopeService) VisibleUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	scope, err := s.ResolveScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if scope.AllEntries {
		return s.userService.Find(ctx, bson.M{}, nil)
	}
	return s.userService.FindManyByIds(ctx, scope.UserIDs)
}

// Team trả về team của actor:
//   - superadmin: tất cả user
//   - admin: bản thân + các báo cáo trực tiếp
//   - others: các user chung ít nhất một admin (nếu chưa được phân công thì chỉ bản thân)
func (s *ScopeService) Team(ctx context.Context, actor Actor) ([]models.User, error) {
	switch actor.Role {
	case models.RoleSuperadmin:
		return s.userService.Find(ctx, bson.M{}, nil)

	case models.RoleAdmin:
		return s.userService.Find(ctx, bson.M{
			"$or": []bson.M{
				{"assignedAdmins": actor.ID},
				{"_id": actor.ID},
			},
		}, nil)

	default:
		me, err := s.userService.FindOneById(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(me.AssignedAdmins) == 0 {
			return []models.User{me}, nil
		}
		return s.userService.Find(ctx, bson.M{
			"$or": []bson.M{
				{"assignedAdmins": bson.M{"$in": me.AssignedAdmins}},
				{"_id": actor.ID},
			},
		}, nil)
	}
}

// TaggableUsers trả về các user actor có thể gắn vào assignedTo của entry:
//   - superadmin: tất cả
//   - admin: bản thân + user chưa được phân công + user đã phân công cho mình
//   - others: bản thân + đồng đội chung admin + các admin của mình
func (s *ScopeService) TaggableUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	switch actor.Role {
	case models.RoleSuperadmin:
		return s.userService.Find(ctx, bson.M{}, nil)

	case models.RoleAdmin:
		return s.userService.Find(ctx, bson.M{
			"$or": []bson.M{
				{"_id": actor.ID},
				{"assignedAdmins": bson.M{"$size": 0}},
				{"assignedAdmins": actor.ID},
			},
		}, nil)

	default:
		me, err := s.userService.FindOneById(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(me.AssignedAdmins) == 0 {
			return []models.User{me}, nil
		}
		return s.userService.Find(ctx, bson.M{
			"$or": []bson.M{
				{"_id": bson.M{"$in": append(me.AssignedAdmins, actor.ID)}},
				{"assignedAdmins": bson.M{"$in": me.AssignedAdmins}},
			},
		}, nil)
	}
}

// ==================
// ASSIGN / UNASSIGN
// ==================

// Assign phân công user vào một admin, lan truyền subtree:
// nếu user được phân công là admin có báo cáo, các báo cáo đó cũng nhận admin mới.
// Trả về intents thông báo cho dispatcher tiêu thụ.
func (s *ScopeService) Assign(ctx context.Context, actor Actor, userID, adminID primitive.ObjectID) ([]notification.Intent, error) {
	log := logger.WithModule("scope")

	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSuperadmin {
		return nil, common.ErrOutOfScope
	}
	// Admin thường chỉ được nhận user về cho chính mình
	if actor.Role == models.RoleAdmin && adminID != actor.ID {
		return nil, common.ErrOutOfScope
	}
	if userID == adminID {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể tự phân công chính mình", common.StatusBadRequest, nil)
	}

	user, err := s.userService.FindOneById(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Superadmin không bao giờ là target của phân công
	if user.IsSuperadmin() {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể phân công superadmin", common.StatusBadRequest, nil)
	}

	admin, err := s.userService.FindOneById(ctx, adminID)
	if err != nil {
		return nil, err
	}
	// Giá trị trong assignedAdmins luôn là admin, không bao giờ là superadmin
	if !admin.IsAdmin() {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Chỉ có thể phân công vào admin", common.StatusBadRequest, nil)
	}

	if utility.ContainsObjectID(user.AssignedAdmins, adminID) {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "User đã được phân công cho admin này", common.StatusBadRequest, nil)
	}

	// Ghi cạnh trực tiếp, kèm provenance nếu do superadmin thiết lập
	update := bson.M{"$addToSet": bson.M{"assignedAdmins": adminID}}
	if actor.Role == models.RoleSuperadmin {
		update = bson.M{"$addToSet": bson.M{
			"assignedAdmins":     adminID,
			"superadminAssigned": adminID,
		}}
	}
	if _, err := s.userService.Collection().UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	intents := []notification.Intent{{
		UserID:  userID,
		Message: fmt.Sprintf("Assigned to admin: %s", admin.Username),
	}}

	// Lan truyền subtree: báo cáo của user (nếu user là admin) cũng nhận admin mới
	if user.IsAdmin() {
		reports, err := s.userService.FindDirectReports(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		reportIDs := make([]primitive.ObjectID, 0, len(reports))
		for _, r := range reports {
			if !utility.ContainsObjectID(r.AssignedAdmins, adminID) {
				reportIDs = append(reportIDs, r.ID)
			}
		}
		if _, err := s.userService.AddAdminToUsers(ctx, reportIDs, adminID); err != nil {
			return nil, err
		}
		for _, reportID := range reportIDs {
			intents = append(intents, notification.Intent{
				UserID:  reportID,
				Message: fmt.Sprintf("Assigned to admin: %s via admin %s", admin.Username, user.Username),
			})
		}
	}

	log.WithFields(logrus.Fields{
		"userId":  userID.Hex(),
		"adminId": adminID.Hex(),
		"actor":   actor.Username,
	}).Info("👥 [SCOPE] User assigned")

	return intents, nil
}

// Unassign gỡ phân công user khỏi một admin.
//   - Admin thường không được gỡ user có cạnh do superadmin thiết lập, trừ khi
//     chính admin đó nằm trong assignedAdmins của user.
//   - force (chỉ superadmin): xóa toàn bộ assignedAdmins của user và gỡ chính
//     user (sub-admin) khỏi các báo cáo của họ, thay vì gỡ admin đang thao tác.
func (s *ScopeService) Unassign(ctx context.Context, actor Actor, userID, adminID primitive.ObjectID, force bool) ([]notification.Intent, error) {
	log := logger.WithModule("scope")

	if actor.Role != models.RoleAdmin && actor.Role != models.RoleSuperadmin {
		return nil, common.ErrOutOfScope
	}
	if actor.Role == models.RoleAdmin && adminID != actor.ID {
		return nil, common.ErrOutOfScope
	}
	if force && actor.Role != models.RoleSuperadmin {
		return nil, common.ErrOutOfScope
	}

	user, err := s.userService.FindOneById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSuperadmin() {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể gỡ phân công superadmin", common.StatusBadRequest, nil)
	}
	if len(user.AssignedAdmins) == 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "User chưa được phân công cho admin nào", common.StatusBadRequest, nil)
	}

	// Carve-out: cạnh do superadmin thiết lập được bảo vệ khỏi admin ngoài cuộc
	if actor.Role == models.RoleAdmin &&
		len(user.SuperadminAssigned) > 0 &&
		!utility.ContainsObjectID(user.AssignedAdmins, actor.ID) {
		return nil, common.ErrProtectedAssignment
	}

	var intents []notification.Intent

	if force {
		// Xóa toàn bộ phân công của user
		update := bson.M{"$set": bson.M{
			"assignedAdmins":     []primitive.ObjectID{},
			"superadminAssigned": []primitive.ObjectID{},
		}}
		if _, err := s.userService.Collection().UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
			return nil, common.ConvertMongoError(err)
		}
	} else {
		if !utility.ContainsObjectID(user.AssignedAdmins, adminID) {
			return nil, common.NewError(common.ErrCodeBusinessOperation, "User không được phân công cho admin này", common.StatusBadRequest, nil)
		}
		if _, err := s.userService.RemoveAdminFromUsers(ctx, []primitive.ObjectID{userID}, adminID); err != nil {
			return nil, err
		}
	}

	intents = append(intents, notification.Intent{
		UserID:  userID,
		Message: fmt.Sprintf("Unassigned from admin: %s", actor.Username),
	})

	// Lan truyền subtree cho báo cáo của user (nếu user là admin)
	if user.IsAdmin() {
		reports, err := s.userService.FindDirectReports(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		reportIDs := make([]primitive.ObjectID, 0, len(reports))
		for _, r := range reports {
			reportIDs = append(reportIDs, r.ID)
		}

		// force: gỡ chính sub-admin khỏi báo cáo của họ
		// bình thường: gỡ admin cấp trên (adminID) khỏi báo cáo
		removed := adminID
		if force {
			removed = user.ID
		}
		if _, err := s.userService.RemoveAdminFromUsers(ctx, reportIDs, removed); err != nil {
			return nil, err
		}
		for _, reportID := range reportIDs {
			intents = append(intents, notification.Intent{
				UserID:  reportID,
				Message: fmt.Sprintf("Unassigned from admin: %s", actor.Username),
			})
		}
	}

	log.WithFields(logrus.Fields{
		"userId":  userID.Hex(),
		"adminId": adminID.Hex(),
		"force":   force,
		"actor":   actor.Username,
	}).Info("👥 [SCOPE] User unassigned")

	return intents, nil
}
