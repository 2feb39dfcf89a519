package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks tách dấu tổ hợp (NFD), bỏ các ký tự dấu rồi ghép lại (NFC)
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeRoleName chuẩn hóa tên role thành token dạng [A-Z0-9_]
// Ví dụ: "Nguyễn Văn A" -> "NGUYEN_VAN_A", "  giáo viên  chủ nhiệm " -> "GIAO_VIEN_CHU_NHIEM"
// Trả về chuỗi rỗng nếu không còn ký tự hợp lệ nào.
func NormalizeRoleName(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	// đ/Đ không phân rã được qua NFD
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
	folded = strings.ToUpper(folded)

	var b strings.Builder
	b.Grow(len(folded))
	prevUnderscore := true // chặn '_' ở đầu chuỗi
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r) || r == '_':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevUnderscore = false
		}
	}
	return strings.TrimRight(b.String(), "_")
}
