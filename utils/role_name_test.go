package utils

import (
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`^[A-Z0-9]+(_[A-Z0-9]+)*$`)

func TestNormalizeRoleName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vietnamese full name", "Nguyễn Văn A", "NGUYEN_VAN_A"},
		{"d with stroke", "Đoàn đội", "DOAN_DOI"},
		{"dashes stripped", "  a--b  ", "AB"},
		{"whitespace runs", "giáo   viên\tchủ nhiệm", "GIAO_VIEN_CHU_NHIEM"},
		{"underscore runs collapsed", "__school__admin__", "SCHOOL_ADMIN"},
		{"mixed separators", "Tổ _ trưởng", "TO_TRUONG"},
		{"digits kept", "khối 10", "KHOI_10"},
		{"already normalized", "SYSTEM_STAFF", "SYSTEM_STAFF"},
		{"only symbols", "!!! ---", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRoleName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeRoleName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRoleNameIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"Nguyễn Văn A", "  a--b  ", "Hiệu phó / chuyên môn", "_x_", "Ứng   viên", "ỷ lại", "Giáo viên bộ môn (THPT)",
	}
	for _, in := range inputs {
		once := NormalizeRoleName(in)
		twice := NormalizeRoleName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
		if once != "" && !tokenPattern.MatchString(once) {
			t.Errorf("NormalizeRoleName(%q) = %q is not a [A-Z0-9_] token", in, once)
		}
	}
}
