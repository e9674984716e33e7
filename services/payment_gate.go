package services

import "boosterClubAPI/internal/club"

const paymentMethodRequired = "a zelleUrl or stripeUrl is required while payment is enabled"

// applyPaymentUpdate returns c with the patch fields of upd laid over it.
func applyPaymentUpdate(c club.Club, upd *club.PaymentUpdate) club.Club {
	if upd.ZelleURL != nil {
		c.ZelleURL = upd.ZelleURL
	}
	if upd.StripeURL != nil {
		c.StripeURL = upd.StripeURL
	}
	if upd.PaymentInstructions != nil {
		c.PaymentInstructions = upd.PaymentInstructions
	}
	if upd.IsPaymentEnabled != nil {
		c.IsPaymentEnabled = *upd.IsPaymentEnabled
	}
	if upd.QRCodeSettings != nil {
		c.QRCodeSettings = *upd.QRCodeSettings
	}
	return c
}

// checkPaymentGate rejects a club that takes payments with no usable link.
func checkPaymentGate(c *club.Club) error {
	if c.IsPaymentEnabled && !c.HasPaymentMethod() {
		return &ValidationError{Problems: []string{paymentMethodRequired}}
	}
	return nil
}
