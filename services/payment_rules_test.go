package services

import (
	"errors"
	"testing"

	"gymdesk_go/models"
)

func TestValidatePaymentVerify(t *testing.T) {
	if err := ValidatePaymentVerify(&models.Payment{IsVerified: false}); err != nil {
		t.Fatalf("verifying an unverified payment should be allowed, got %v", err)
	}

	err := ValidatePaymentVerify(&models.Payment{IsVerified: true})
	if !errors.Is(err, ErrPaymentAlreadyVerified) {
		t.Fatalf("expected ErrPaymentAlreadyVerified, got %v", err)
	}
}

func TestValidatePaymentUnverify(t *testing.T) {
	if err := ValidatePaymentUnverify(&models.Payment{IsVerified: true}); err != nil {
		t.Fatalf("unverifying a verified payment should be allowed, got %v", err)
	}

	err := ValidatePaymentUnverify(&models.Payment{IsVerified: false})
	if !errors.Is(err, ErrPaymentNotVerified) {
		t.Fatalf("expected ErrPaymentNotVerified, got %v", err)
	}
}

func TestValidatePaymentMutable(t *testing.T) {
	tests := []struct {
		name     string
		verified bool
		wantErr  error
	}{
		{"unverified payments can be edited or deleted", false, nil},
		{"verified payments are frozen", true, ErrPaymentFrozen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaymentMutable(&models.Payment{IsVerified: tt.verified})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyUnverifyRoundTrip(t *testing.T) {
	p := &models.Payment{}

	if err := ValidatePaymentVerify(p); err != nil {
		t.Fatalf("first verify should pass: %v", err)
	}
	p.IsVerified = true

	if err := ValidatePaymentMutable(p); !errors.Is(err, ErrPaymentFrozen) {
		t.Fatalf("verified payment must be frozen, got %v", err)
	}

	if err := ValidatePaymentUnverify(p); err != nil {
		t.Fatalf("unverify of a verified payment should pass: %v", err)
	}
	p.IsVerified = false

	if err := ValidatePaymentMutable(p); err != nil {
		t.Fatalf("unverified payment should be mutable again, got %v", err)
	}
}
