package domain_test

import (
	"errors"
	"testing"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "digits only", raw: "1234567890", want: "1234567890"},
		{name: "dashes stripped", raw: "123-456-7890", want: "1234567890"},
		{name: "parens and spaces stripped", raw: "(123) 456 7890", want: "1234567890"},
		{name: "empty allowed", raw: "", want: ""},
		{name: "blank allowed", raw: "   ", want: ""},
		{name: "too short", raw: "12345", wantErr: domain.ErrPhoneLength},
		{name: "too long", raw: "12345678901", wantErr: domain.ErrPhoneLength},
		{name: "letters rejected", raw: "123456789a", wantErr: domain.ErrPhoneNotDigits},
		{name: "plus rejected", raw: "+1234567890", wantErr: domain.ErrPhoneNotDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalizePhone(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCustomerValidate(t *testing.T) {
	c := domain.Customer{Name: "Иванов И.И.", Phone: "123-456-7890"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Phone != "1234567890" {
		t.Errorf("expected normalized phone, got %q", c.Phone)
	}
}

func TestCustomerValidate_NameRequired(t *testing.T) {
	c := domain.Customer{Name: "   "}
	if err := c.Validate(); !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}
