package export

import (
	"bytes"
	"fmt"

	"github.com/techmaster-vietnam/schoolkit/models"
	"github.com/xuri/excelize/v2"
)

// UserExportHeader là tiêu đề cột khi xuất danh sách người dùng
var UserExportHeader = []string{
	"ID",
	"Họ tên",
	"Email",
	"Giới tính",
	"Ngày sinh",
	"Số điện thoại",
	"Địa chỉ",
	"Phạm vi",
	"Trường",
	"Role",
	"Trạng thái",
}

// SchoolExportHeader là tiêu đề cột khi xuất danh sách trường
var SchoolExportHeader = []string{
	"ID",
	"Tên trường",
	"Mã trường",
	"Email",
	"Hotline",
	"Địa chỉ",
	"Hiệu trưởng",
	"Ngày tạo",
}

var (
	userColumnWidths   = []float64{8, 28, 32, 10, 14, 16, 40, 12, 32, 20, 14}
	schoolColumnWidths = []float64{8, 36, 14, 28, 16, 48, 24, 20}
)

// Users tạo file xlsx từ danh sách user. roleNames và schoolNames dùng để hiển thị tên thay cho ID.
func Users(users []models.User, roleNames map[uint]string, schoolNames map[uint]string) ([]byte, error) {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		birth := ""
		if u.BirthYear != nil {
			birth = u.BirthYear.String()
		}
		school := ""
		if u.SchoolID != nil {
			school = schoolNames[*u.SchoolID]
		}
		status := "Ngừng hoạt động"
		if u.Active {
			status = "Hoạt động"
		}
		rows = append(rows, []interface{}{
			u.ID, u.FullName, u.Email, string(u.Gender), birth, u.PhoneNumber, u.Address,
			string(u.Scope), school, roleNames[u.RoleID], status,
		})
	}
	return generateWorkbook("Người dùng", UserExportHeader, userColumnWidths, rows)
}

// Schools tạo file xlsx từ danh sách trường
func Schools(schools []models.School) ([]byte, error) {
	rows := make([][]interface{}, 0, len(schools))
	for _, s := range schools {
		rows = append(rows, []interface{}{
			s.ID, s.Name, s.Code, s.Email, s.Hotline, s.Address, s.PrincipalName,
			s.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return generateWorkbook("Trường học", SchoolExportHeader, schoolColumnWidths, rows)
}

func generateWorkbook(sheetName string, headers []string, widths []float64, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	// Xóa Sheet1 mặc định
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Dữ liệu bắt đầu từ dòng 2
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
