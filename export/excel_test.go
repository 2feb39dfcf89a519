package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestUsers(t *testing.T) {
	schoolID := uint(1)
	birth, _ := models.ParseDate("1985-07-25")
	users := []models.User{
		{ID: 4, FullName: "Trần Thị Lan", Email: "lan.tran@school1.edu.vn", Gender: models.GenderFemale, BirthYear: &birth,
			Scope: models.ScopeSchool, SchoolID: &schoolID, RoleID: 4, Active: true},
		{ID: 2, FullName: "Nhân Viên Hệ Thống", Email: "staff@system.com", Scope: models.ScopeProvider, RoleID: 2},
	}

	data, err := Users(users, map[uint]string{4: "TEACHER", 2: "SYSTEM_STAFF"}, map[uint]string{1: "Trường Tiểu học Nguyễn Du"})
	require.NoError(t, err)

	rows := readRows(t, data, "Người dùng")
	require.Len(t, rows, 3)
	assert.Equal(t, UserExportHeader, rows[0])
	assert.Equal(t, []string{"4", "Trần Thị Lan", "lan.tran@school1.edu.vn", "FEMALE", "1985-07-25", "", "",
		"SCHOOL", "Trường Tiểu học Nguyễn Du", "TEACHER", "Hoạt động"}, rows[1])
	assert.Equal(t, "SYSTEM_STAFF", rows[2][9])
	assert.Equal(t, "Ngừng hoạt động", rows[2][10])
}

func TestSchools_HeaderOnly(t *testing.T) {
	data, err := Schools(nil)
	require.NoError(t, err)

	rows := readRows(t, data, "Trường học")
	require.Len(t, rows, 1)
	assert.Equal(t, SchoolExportHeader, rows[0])
}
