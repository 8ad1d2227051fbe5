package payment

import "time"

// Form holds the payment fields while the user types.  Each setter
// normalizes its input the way the on-screen mask does and clears only
// that field's message; messages are produced by Submit.
type Form struct {
	card   string
	expiry string
	cvv    string
	errs   FieldErrors
	now    func() time.Time
}

// NewForm returns an empty form.  now defaults to time.Now.
func NewForm(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{errs: FieldErrors{}, now: now}
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// SetCardNumber keeps at most 16 digits of raw.
func (f *Form) SetCardNumber(raw string) {
	f.card = clip(DigitsOnly(raw), CardNumberDigits)
	delete(f.errs, FieldCardNumber)
}

// SetExpirationDate keeps at most 4 digits of raw.
func (f *Form) SetExpirationDate(raw string) {
	f.expiry = clip(DigitsOnly(raw), ExpirationDateDigits)
	delete(f.errs, FieldExpirationDate)
}

// SetCVV keeps at most 3 digits of raw.
func (f *Form) SetCVV(raw string) {
	f.cvv = clip(DigitsOnly(raw), CVVDigits)
	delete(f.errs, FieldCVV)
}

// CardNumber is the card number as displayed.
func (f *Form) CardNumber() string { return FormatCardNumber(f.card) }

// ExpirationDate is the expiry as displayed.
func (f *Form) ExpirationDate() string { return FormatExpirationDate(f.expiry) }

// CVV is the security code as entered.
func (f *Form) CVV() string { return f.cvv }

// Submit validates every field.  It returns the normalized input and true
// only when all three are valid; otherwise the per-field messages are
// available through Errors.
func (f *Form) Submit() (Input, bool) {
	in := Input{CardNumber: f.card, ExpirationDate: f.ExpirationDate(), CVV: f.cvv}
	f.errs = Validate(in, f.now())
	if len(f.errs) > 0 {
		return Input{}, false
	}
	return in, true
}

// Error returns the current message of field, or "".
func (f *Form) Error(field Field) string { return Message(f.errs[field]) }

// Errors returns all current messages.
func (f *Form) Errors() map[Field]string { return f.errs.Messages() }
