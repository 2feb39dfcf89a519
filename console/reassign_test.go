package console_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/schoolkit/client"
	"github.com/techmaster-vietnam/schoolkit/console"
	"github.com/techmaster-vietnam/schoolkit/models"
)

func TestReassignWorkflow_DirectDelete(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, s := login(t, base, school1Admin, "admin123")
	list, err := console.NewRoleList(c, s)
	require.NoError(t, err)

	list.OpenAdd()
	form, _ := list.Form()
	form.RoleName = "Bao ve"
	list.SetForm(form)
	require.NoError(t, list.Save(ctx))
	items := list.Items()
	require.Len(t, items, 3)
	unused := items[2]

	wf := console.NewReassignWorkflow(c, list)
	require.NoError(t, wf.RequestDelete(ctx, unused.ID))

	assert.Equal(t, console.StateClosed, wf.State())
	assert.Nil(t, wf.Role(), "role không có người dùng thì không mở modal")
	assert.Equal(t, []uint{4, 5}, roleIDs(list.Items()))
}

func TestReassignWorkflow_ReassignAndDelete(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, s := login(t, base, school1Admin, "admin123")
	list, err := console.NewRoleList(c, s)
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))

	wf := console.NewReassignWorkflow(c, list)
	require.NoError(t, wf.RequestDelete(ctx, 5))
	require.Equal(t, console.StateReassignModalOpen, wf.State())
	require.NotNil(t, wf.Role())
	assert.Equal(t, int64(1), wf.Role().UserCount)
	assert.Equal(t, []uint{4}, roleIDs(wf.Alternatives()))

	// Chưa chọn role thay thế
	var rejection *console.RejectionError
	require.True(t, errors.As(wf.Confirm(ctx), &rejection))
	assert.Equal(t, console.StateReassignModalOpen, wf.State())
	_, err = c.Roles.Get(ctx, 5)
	require.NoError(t, err, "role vẫn còn")

	// Role của trường khác không hợp lệ
	require.True(t, errors.As(wf.Select(7), &rejection))
	_, selected := wf.Selected()
	assert.False(t, selected)

	require.NoError(t, wf.Select(4))
	require.NoError(t, wf.Confirm(ctx))
	assert.Equal(t, console.StateClosed, wf.State())
	assert.Equal(t, int64(1), wf.Reassigned())

	user, err := c.Users.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(4), user.RoleID)
	_, err = c.Roles.Get(ctx, 5)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, []uint{4}, roleIDs(list.Items()))
}

func TestReassignWorkflow_NoAlternatives(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, _ := login(t, base, providerEmail, "admin123")

	wf := console.NewReassignWorkflow(c, nil)
	require.NoError(t, wf.RequestDelete(ctx, 2))
	require.Equal(t, console.StateReassignModalOpen, wf.State())
	assert.Empty(t, wf.Alternatives())

	var rejection *console.RejectionError
	require.True(t, errors.As(wf.Confirm(ctx), &rejection))
	assert.Contains(t, rejection.Message, "Không có role thay thế")

	wf.Cancel()
	assert.Equal(t, console.StateIdle, wf.State())
	_, err := c.Roles.Get(ctx, 2)
	assert.NoError(t, err)
}

// stubRoleRoutes trả về các route cho role 5 (đang dùng) với role thay thế 4
func stubRoleRoutes(inUse bool) map[string]http.HandlerFunc {
	school := uintPtr(1)
	old := models.Role{ID: 5, RoleName: "STUDENT", TypeRole: models.ScopeSchool, SchoolID: school, UserCount: 2}
	alt := models.Role{ID: 4, RoleName: "TEACHER", TypeRole: models.ScopeSchool, SchoolID: school}
	admin := models.Role{ID: 3, RoleName: models.RoleSchoolAdmin, TypeRole: models.ScopeSchool}
	return map[string]http.HandlerFunc{
		"GET /api/users/role-in-use/5": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "", inUse)
		},
		"GET /api/roles/5": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "", old)
		},
		"GET /api/roles": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "", models.NewPage([]models.Role{admin, alt, old}, 1, 1000, 3))
		},
	}
}

func TestReassignWorkflow_TwoStepPartialSuccess(t *testing.T) {
	routes := stubRoleRoutes(true)
	var reassignCalls int32
	routes["PUT /api/users/reassign-role"] = func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&reassignCalls, 1)
		writeEnvelope(w, http.StatusOK, true, "", 2)
	}
	routes["DELETE /api/roles/5"] = func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, false, "Internal server error", nil)
	}
	c := stubServer(t, routes)
	ctx := context.Background()

	wf := console.NewReassignWorkflow(c, nil, console.WithTwoStepReassign())
	require.NoError(t, wf.RequestDelete(ctx, 5))
	require.NoError(t, wf.Select(4))

	err := wf.Confirm(ctx)
	var partial *console.PartialSuccessError
	require.True(t, errors.As(err, &partial), "err = %v", err)
	assert.Equal(t, int64(2), partial.Reassigned)
	var serverErr *client.ServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, console.StateClosed, wf.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&reassignCalls))
}

func TestReassignWorkflow_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("kiểm tra role lỗi thì về Idle", func(t *testing.T) {
		c := stubServer(t, map[string]http.HandlerFunc{
			"GET /api/users/role-in-use/5": func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusInternalServerError, false, "db down", nil)
			},
		})
		wf := console.NewReassignWorkflow(c, nil)
		err := wf.RequestDelete(ctx, 5)
		var serverErr *client.ServerError
		require.True(t, errors.As(err, &serverErr))
		assert.Equal(t, console.StateIdle, wf.State())
	})

	t.Run("chuyển người dùng lỗi thì modal vẫn mở", func(t *testing.T) {
		routes := stubRoleRoutes(true)
		var deleteCalls int32
		routes["POST /api/roles/5/reassign-and-delete"] = func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "4", r.URL.Query().Get("newRoleId"))
			writeEnvelope(w, http.StatusInternalServerError, false, "Internal server error", nil)
		}
		routes["DELETE /api/roles/5"] = func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&deleteCalls, 1)
		}
		c := stubServer(t, routes)

		wf := console.NewReassignWorkflow(c, nil)
		require.NoError(t, wf.RequestDelete(ctx, 5))
		assert.Equal(t, []uint{4}, roleIDs(wf.Alternatives()))
		require.NoError(t, wf.Select(4))
		require.Error(t, wf.Confirm(ctx))
		assert.Equal(t, console.StateReassignModalOpen, wf.State())
		assert.Zero(t, atomic.LoadInt32(&deleteCalls))
	})

	t.Run("xóa trực tiếp bị 409 thì mở modal", func(t *testing.T) {
		routes := stubRoleRoutes(false)
		routes["DELETE /api/roles/5"] = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusConflict, false, "Role đang được sử dụng", nil)
		}
		c := stubServer(t, routes)

		wf := console.NewReassignWorkflow(c, nil)
		require.NoError(t, wf.RequestDelete(ctx, 5))
		assert.Equal(t, console.StateReassignModalOpen, wf.State())
		assert.Equal(t, int64(2), wf.Role().UserCount)
	})

	t.Run("xác nhận khi chưa yêu cầu xóa", func(t *testing.T) {
		c := stubServer(t, nil)
		wf := console.NewReassignWorkflow(c, nil)
		var rejection *console.RejectionError
		assert.True(t, errors.As(wf.Confirm(ctx), &rejection))
		assert.Equal(t, console.StateIdle, wf.State())
	})
}

func TestReassignState_String(t *testing.T) {
	assert.Equal(t, "REASSIGN_MODAL_OPEN", console.StateReassignModalOpen.String())
	assert.Equal(t, "CLOSED", console.StateClosed.String())
}
