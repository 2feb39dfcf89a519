package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/techmaster-vietnam/goerrorkit"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "an.nguyen@school1.edu.vn", false},
		{"empty", "   ", true},
		{"missing at", "an.nguyen.school1.edu.vn", true},
		{"missing tld", "an@school1", true},
		{"local part too long", strings.Repeat("a", 65) + "@edu.vn", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if err != nil {
				var appErr *goerrorkit.AppError
				if !errors.As(err, &appErr) || appErr.Type != goerrorkit.ValidationError {
					t.Errorf("expected ValidationError, got %v", err)
				}
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	if fe.Err() != nil {
		t.Fatal("empty FieldErrors should not produce an error")
	}

	fe.Required("fullName", " ", "Họ tên là bắt buộc")
	fe.Email("email", "bad")
	fe.Add("fullName", "ignored")

	err := fe.Err()
	var appErr *goerrorkit.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *goerrorkit.AppError, got %T", err)
	}
	fields, ok := appErr.Data["fields"].(map[string]string)
	if !ok {
		t.Fatalf("data.fields has type %T", appErr.Data["fields"])
	}
	if fields["fullName"] != "Họ tên là bắt buộc" {
		t.Errorf("fullName = %q", fields["fullName"])
	}
	if fields["email"] == "" {
		t.Error("email error missing")
	}
}
