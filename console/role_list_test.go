package console_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/schoolkit/console"
	"github.com/techmaster-vietnam/schoolkit/models"
)

func TestRoleList_HidesProtectedRoles(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()

	t.Run("provider không thấy SYSTEM_ADMIN", func(t *testing.T) {
		c, s := login(t, base, providerEmail, "admin123")
		list, err := console.NewRoleList(c, s)
		require.NoError(t, err)
		require.NoError(t, list.Load(ctx))

		assert.Equal(t, []uint{2}, roleIDs(list.Items()))
		for _, r := range list.Items() {
			assert.NotEqual(t, models.RoleSystemAdmin, r.RoleName)
		}
	})

	t.Run("trường chỉ thấy role của mình, không thấy SCHOOL_ADMIN", func(t *testing.T) {
		c, s := login(t, base, school1Admin, "admin123")
		list, err := console.NewRoleList(c, s)
		require.NoError(t, err)
		require.NoError(t, list.Load(ctx))

		assert.Equal(t, []uint{4, 5}, roleIDs(list.Items()))
	})

	t.Run("giáo viên không được mở", func(t *testing.T) {
		c, s := login(t, base, school1Staff, "teacher123")
		_, err := console.NewRoleList(c, s)
		assert.ErrorIs(t, err, console.ErrForbidden)
	})
}

func TestRoleList_HiddenRoleExcludedFromTotals(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, s := login(t, base, providerEmail, "admin123")
	list, err := console.NewRoleList(c, s, console.WithPageSize(1))
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))

	assert.Equal(t, []uint{2}, roleIDs(list.Items()))
	assert.Equal(t, int64(1), list.Pager().TotalElements)
	assert.Equal(t, 1, list.Pager().TotalPages)
	assert.False(t, list.Pager().HasNext())
}

func TestRoleList_SendsHiddenRoleName(t *testing.T) {
	var excluded []string
	c := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/roles": func(w http.ResponseWriter, r *http.Request) {
			excluded = r.URL.Query()["excludeName"]
			writeEnvelope(w, http.StatusOK, true, "", models.NewPage([]models.Role{{ID: 4, RoleName: "TEACHER"}}, 1, 10, 1))
		},
	})
	list, err := console.NewRoleList(c, schoolSession(1))
	require.NoError(t, err)
	require.NoError(t, list.Load(context.Background()))
	assert.Equal(t, []string{models.RoleSchoolAdmin}, excluded)
}

func TestRoleList_Save(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, s := login(t, base, school1Admin, "admin123")
	list, err := console.NewRoleList(c, s)
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))

	assert.ErrorIs(t, list.Save(ctx), console.ErrNoForm)

	list.OpenAdd()
	form, ok := list.Form()
	require.True(t, ok)
	assert.Equal(t, models.ScopeSchool, form.TypeRole)
	require.NotNil(t, form.SchoolID)
	assert.Equal(t, uint(1), *form.SchoolID)

	form.RoleName = " !!! "
	list.SetForm(form)
	assert.ErrorIs(t, list.Save(ctx), console.ErrInvalidForm)
	assert.Contains(t, list.FieldErrors(), "roleName")

	form.RoleName = "Thủ thư"
	form.Description = "Quản lý thư viện"
	list.SetForm(form)
	require.NoError(t, list.Save(ctx))

	_, open := list.Form()
	assert.False(t, open)
	assert.Empty(t, list.FieldErrors())
	items := list.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "THU_THU", items[2].RoleName)

	list.OpenEdit(items[2])
	form, _ = list.Form()
	assert.Equal(t, items[2].ID, form.ID)
	form.Description = "Thư viện trường"
	list.SetForm(form)
	require.NoError(t, list.Save(ctx))
	assert.Equal(t, "Thư viện trường", list.Items()[2].Description)
}

func TestRoleList_DeleteLastItemStepsBack(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()
	c, s := login(t, base, school1Admin, "admin123")
	list, err := console.NewRoleList(c, s, console.WithPageSize(2))
	require.NoError(t, err)

	for _, name := range []string{"Thu Vien", "Y Te", "Bao Ve"} {
		list.OpenAdd()
		form, _ := list.Form()
		form.RoleName = name
		list.SetForm(form)
		require.NoError(t, list.Save(ctx))
	}

	// Role hiển thị cho trường 1 (SCHOOL_ADMIN bị loại ở server): 4, 5 | THU_VIEN, Y_TE | BAO_VE
	require.NoError(t, list.SetPage(ctx, 2))
	items := list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "BAO_VE", items[0].RoleName)
	assert.Equal(t, 3, list.Pager().TotalPages)

	require.NoError(t, list.Delete(ctx, items[0].ID))
	assert.Equal(t, 1, list.Pager().Page)
	assert.Len(t, list.Items(), 2)
	assert.Equal(t, int64(4), list.Pager().TotalElements)
}

func TestRoleList_SearchDebounced(t *testing.T) {
	base := startServer(t)
	c, s := login(t, base, school1Admin, "admin123")

	reloaded := make(chan struct{}, 1)
	list, err := console.NewRoleList(c, s,
		console.WithDebounce(20*time.Millisecond),
		console.OnReload(func() { reloaded <- struct{}{} }))
	require.NoError(t, err)
	defer list.Close()

	list.Search(context.Background(), "tea")
	list.Search(context.Background(), "teach")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("search không chạy")
	}
	assert.Equal(t, "teach", list.Keyword())
	assert.Equal(t, []uint{4}, roleIDs(list.Items()))
}

func TestRoleList_BusyGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := stubServer(t, map[string]http.HandlerFunc{
		"GET /api/roles": func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-release
			writeEnvelope(w, http.StatusOK, true, "", models.NewPage([]models.Role{{ID: 2, RoleName: "SYSTEM_STAFF"}}, 1, 10, 1))
		},
	})
	list, err := console.NewRoleList(c, providerSession())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background()) }()
	<-entered

	assert.ErrorIs(t, list.Load(context.Background()), console.ErrBusy)
	assert.ErrorIs(t, list.Delete(context.Background(), 2), console.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []uint{2}, roleIDs(list.Items()))
}
