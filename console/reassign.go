package console

import (
	"context"
	"sync"

	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/models"
	"go.uber.org/zap"
)

// ReassignState là trạng thái của luồng xóa role
type ReassignState int

const (
	StateIdle ReassignState = iota
	StateDeleteRequested
	StateCheckingUsage
	StateDirectDelete
	StateReassignModalOpen
	StateReassigning
	StateClosed
)

func (s ReassignState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDeleteRequested:
		return "DELETE_REQUESTED"
	case StateCheckingUsage:
		return "CHECKING_USAGE"
	case StateDirectDelete:
		return "DIRECT_DELETE"
	case StateReassignModalOpen:
		return "REASSIGN_MODAL_OPEN"
	case StateReassigning:
		return "REASSIGNING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Reloader tải lại danh sách sau khi một role bị xóa
type Reloader interface {
	AfterDelete(ctx context.Context) error
}

// ReassignWorkflow điều phối việc xóa role:
// role không có người dùng thì xóa thẳng, ngược lại mở modal chọn role thay thế,
// chuyển người dùng sang role đó rồi mới xóa.
type ReassignWorkflow struct {
	roles   *client.RoleClient
	users   *client.UserClient
	list    Reloader
	twoStep bool
	logger  *zap.Logger

	mu           sync.Mutex
	state        ReassignState
	role         *models.Role
	roleID       uint
	alternatives []models.Role
	selected     *uint
	reassigned   int64
}

// NewReassignWorkflow tạo workflow. list có thể nil nếu không cần tải lại danh sách.
func NewReassignWorkflow(c *client.Client, list Reloader, opts ...Option) *ReassignWorkflow {
	o := buildOptions(opts)
	return &ReassignWorkflow{
		roles:   c.Roles,
		users:   c.Users,
		list:    list,
		twoStep: o.twoStep,
		logger:  o.logger.With(zap.String("workflow", "reassign_role")),
	}
}

// State trả về trạng thái hiện tại
func (w *ReassignWorkflow) State() ReassignState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Role là role đang được xóa (có userCount), nil trước khi modal mở
func (w *ReassignWorkflow) Role() *models.Role {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.role == nil {
		return nil
	}
	r := *w.role
	return &r
}

// Alternatives là các role có thể chọn làm role thay thế
func (w *ReassignWorkflow) Alternatives() []models.Role {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Role(nil), w.alternatives...)
}

// Selected trả về role thay thế đã chọn
func (w *ReassignWorkflow) Selected() (uint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return 0, false
	}
	return *w.selected, true
}

// Reassigned là số người dùng đã được chuyển ở lần xác nhận gần nhất
func (w *ReassignWorkflow) Reassigned() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reassigned
}

func (w *ReassignWorkflow) setState(s ReassignState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// RequestDelete bắt đầu xóa role sau khi người dùng đã xác nhận
func (w *ReassignWorkflow) RequestDelete(ctx context.Context, roleID uint) error {
	w.mu.Lock()
	if w.state != StateIdle && w.state != StateClosed {
		w.mu.Unlock()
		return ErrBusy
	}
	w.state = StateDeleteRequested
	w.roleID = roleID
	w.role = nil
	w.alternatives = nil
	w.selected = nil
	w.reassigned = 0
	w.state = StateCheckingUsage
	w.mu.Unlock()

	inUse, err := w.users.IsRoleInUse(ctx, roleID)
	if err != nil {
		w.setState(StateIdle)
		return err
	}

	if !inUse {
		w.setState(StateDirectDelete)
		err := w.roles.Delete(ctx, roleID)
		if err == nil {
			w.finish(ctx)
			return nil
		}
		if !client.IsConflict(err) {
			w.setState(StateIdle)
			return err
		}
		// Role vừa có người dùng giữa lúc kiểm tra và lúc xóa
		w.logger.Info("Role đã có người dùng, chuyển sang chọn role thay thế", zap.Uint("role_id", roleID))
	}

	return w.openModal(ctx, roleID)
}

func (w *ReassignWorkflow) openModal(ctx context.Context, roleID uint) error {
	role, err := w.roles.Get(ctx, roleID)
	if err != nil {
		w.setState(StateIdle)
		return err
	}

	page, err := w.roles.List(ctx, client.RoleQuery{
		TypeRole: role.TypeRole,
		SchoolID: role.SchoolID,
		Size:     roleLookupSize,
	})
	if err != nil {
		w.setState(StateIdle)
		return err
	}
	alternatives := make([]models.Role, 0, len(page.Data))
	for i := range page.Data {
		if page.Data[i].IsAlternativeFor(role) {
			alternatives = append(alternatives, page.Data[i])
		}
	}

	w.mu.Lock()
	w.role = role
	w.alternatives = alternatives
	w.state = StateReassignModalOpen
	w.mu.Unlock()
	return nil
}

// Select chọn role thay thế, phải thuộc Alternatives
func (w *ReassignWorkflow) Select(newRoleID uint) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReassignModalOpen {
		return &RejectionError{Message: "Không có role nào đang chờ xóa"}
	}
	for _, r := range w.alternatives {
		if r.ID == newRoleID {
			id := newRoleID
			w.selected = &id
			return nil
		}
	}
	return &RejectionError{Message: "Role thay thế không hợp lệ"}
}

// Cancel đóng modal, role không bị xóa
func (w *ReassignWorkflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateReassignModalOpen {
		w.state = StateIdle
		w.selected = nil
	}
}

// Confirm chuyển người dùng sang role đã chọn rồi xóa role cũ.
// Chưa chọn role hoặc không có role thay thế thì trả về RejectionError, không gửi request nào.
func (w *ReassignWorkflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.state == StateReassigning:
		w.mu.Unlock()
		return ErrBusy
	case w.state != StateReassignModalOpen:
		w.mu.Unlock()
		return &RejectionError{Message: "Không có role nào đang chờ xóa"}
	case len(w.alternatives) == 0:
		w.mu.Unlock()
		return &RejectionError{Message: "Không có role thay thế phù hợp. Vui lòng tạo role mới trước khi xóa."}
	case w.selected == nil:
		w.mu.Unlock()
		return &RejectionError{Message: "Vui lòng chọn role thay thế"}
	}
	oldID, newID := w.roleID, *w.selected
	w.state = StateReassigning
	w.mu.Unlock()

	if !w.twoStep {
		n, err := w.roles.ReassignAndDelete(ctx, oldID, newID)
		if err != nil {
			w.setState(StateReassignModalOpen)
			return err
		}
		w.setReassigned(n)
		w.finish(ctx)
		return nil
	}

	n, err := w.users.ReassignRole(ctx, oldID, newID)
	if err != nil {
		w.setState(StateReassignModalOpen)
		return err
	}
	w.setReassigned(n)
	if err := w.roles.Delete(ctx, oldID); err != nil {
		w.logger.Warn("Đã chuyển người dùng nhưng xóa role thất bại",
			zap.Uint("role_id", oldID),
			zap.Uint("new_role_id", newID),
			zap.Int64("reassigned", n),
			zap.Error(err))
		w.finish(ctx)
		return &PartialSuccessError{Reassigned: n, Cause: err}
	}
	w.finish(ctx)
	return nil
}

func (w *ReassignWorkflow) setReassigned(n int64) {
	w.mu.Lock()
	w.reassigned = n
	w.mu.Unlock()
}

// finish đóng modal và tải lại danh sách. Lỗi tải lại chỉ được log.
func (w *ReassignWorkflow) finish(ctx context.Context) {
	w.setState(StateClosed)
	if w.list == nil {
		return
	}
	if err := w.list.AfterDelete(ctx); err != nil {
		w.logger.Warn("Tải lại danh sách role thất bại", zap.Error(err))
	}
}
