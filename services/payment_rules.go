package services

import (
	"errors"

	"gymdesk_go/models"
)

var (
	ErrPaymentAlreadyVerified = errors.New("payment is already verified")
	ErrPaymentNotVerified     = errors.New("payment is not verified")
	ErrPaymentFrozen          = errors.New("verified payments are frozen; unverify first")
)

// ValidatePaymentVerify checks that a payment can move to verified.
func ValidatePaymentVerify(p *models.Payment) error {
	if p.IsVerified {
		return ErrPaymentAlreadyVerified
	}
	return nil
}

// ValidatePaymentUnverify checks that a payment can move back to unverified.
func ValidatePaymentUnverify(p *models.Payment) error {
	if !p.IsVerified {
		return ErrPaymentNotVerified
	}
	return nil
}

// ValidatePaymentMutable guards edits and deletion. Verified payments are
// audited revenue and must be unverified before either.
func ValidatePaymentMutable(p *models.Payment) error {
	if p.IsVerified {
		return ErrPaymentFrozen
	}
	return nil
}
