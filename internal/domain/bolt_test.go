package domain_test

import (
	"errors"
	"testing"

	"github.com/antonkravchenko/powerlock/internal/domain"
)

func TestBoltTypeIsValid(t *testing.T) {
	for _, bt := range domain.BoltTypes {
		if !bt.IsValid() {
			t.Errorf("type %q should be valid", bt)
		}
	}
	if domain.BoltType("triple").IsValid() {
		t.Error("type triple should be invalid")
	}
}

func TestBoltValidate(t *testing.T) {
	tests := []struct {
		name    string
		bolt    domain.Bolt
		wantErr error
	}{
		{
			name: "valid",
			bolt: domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeSingle, Qty: 10},
		},
		{
			name:    "name required",
			bolt:    domain.Bolt{Name: " ", Type: domain.BoltTypeSingle},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "invalid type",
			bolt:    domain.Bolt{Name: "Hex Bolt", Type: "triple"},
			wantErr: domain.ErrInvalidBoltType,
		},
		{
			name:    "negative quantity",
			bolt:    domain.Bolt{Name: "Hex Bolt", Type: domain.BoltTypeDouble, Qty: -1},
			wantErr: domain.ErrQtyNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bolt.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
