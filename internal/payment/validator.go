// Package payment validates the card details entered on the payment step.
// Payment is simulated: the fields are checked locally and never stored;
// only the chosen method ends up on a booking.
package payment

import (
	"errors"
	"strings"
	"time"
)

// Field names a payment form input.
type Field string

const (
	FieldCardNumber     Field = "card_number"
	FieldExpirationDate Field = "expiration_date"
	FieldCVV            Field = "cvv"
)

// Input lengths, in digits.
const (
	CardNumberDigits     = 16
	ExpirationDateDigits = 4
	CVVDigits            = 3
)

var (
	ErrCardNumberRequired = errors.New("card number is required")
	ErrCardNumberLength   = errors.New("card number must be 16 digits")
	ErrExpirationRequired = errors.New("expiration date is required")
	ErrExpirationFormat   = errors.New("expiration date must be MM/YY")
	ErrExpirationMonth    = errors.New("invalid expiration month")
	ErrCardExpired        = errors.New("card has expired")
	ErrCVVRequired        = errors.New("cvv is required")
	ErrCVVLength          = errors.New("cvv must be 3 digits")
)

var messages = map[error]string{
	ErrCardNumberRequired: "Card number is required",
	ErrCardNumberLength:   "Card number must be 16 digits",
	ErrExpirationRequired: "Expiration date is required",
	ErrExpirationFormat:   "Use MM/YY format",
	ErrExpirationMonth:    "Invalid month",
	ErrCardExpired:        "Card has expired",
	ErrCVVRequired:        "CVV is required",
	ErrCVVLength:          "CVV must be 3 digits",
}

// Message returns the text shown under a field for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for known, msg := range messages {
		if errors.Is(err, known) {
			return msg
		}
	}
	return err.Error()
}

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber groups the digits of raw in blocks of four.
func FormatCardNumber(raw string) string {
	digits := DigitsOnly(raw)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpirationDate renders the digits of raw as MM/YY once at least
// two digits are present.  Digits past the fourth are dropped.
func FormatExpirationDate(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > ExpirationDateDigits {
		digits = digits[:ExpirationDateDigits]
	}
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// ValidateCardNumber checks that raw holds exactly 16 digits once
// separators are removed.
func ValidateCardNumber(raw string) error {
	digits := DigitsOnly(raw)
	switch {
	case digits == "":
		return ErrCardNumberRequired
	case len(digits) != CardNumberDigits:
		return ErrCardNumberLength
	}
	return nil
}

// ValidateExpirationDate checks an MM/YY date against now.  The year is
// 2000+YY and a card stays valid through its expiry month.
func ValidateExpirationDate(raw string, now time.Time) error {
	digits := DigitsOnly(raw)
	if digits == "" {
		return ErrExpirationRequired
	}
	if len(digits) != ExpirationDateDigits {
		return ErrExpirationFormat
	}
	month := int(digits[0]-'0')*10 + int(digits[1]-'0')
	year := 2000 + int(digits[2]-'0')*10 + int(digits[3]-'0')
	if month < 1 || month > 12 {
		return ErrExpirationMonth
	}
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return ErrCardExpired
	}
	return nil
}

// ValidateCVV checks that raw holds exactly three digits.
func ValidateCVV(raw string) error {
	digits := DigitsOnly(raw)
	switch {
	case digits == "":
		return ErrCVVRequired
	case len(digits) != CVVDigits:
		return ErrCVVLength
	}
	return nil
}

// Input is a submit-ready set of card details.
type Input struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
}

// FieldErrors maps each invalid field to its error.
type FieldErrors map[Field]error

// Messages renders the errors for display.
func (fe FieldErrors) Messages() map[Field]string {
	out := make(map[Field]string, len(fe))
	for f, err := range fe {
		out[f] = Message(err)
	}
	return out
}

// Validate checks all three fields independently.  An empty result means
// the card may be submitted.
func Validate(in Input, now time.Time) FieldErrors {
	fe := FieldErrors{}
	if err := ValidateCardNumber(in.CardNumber); err != nil {
		fe[FieldCardNumber] = err
	}
	if err := ValidateExpirationDate(in.ExpirationDate, now); err != nil {
		fe[FieldExpirationDate] = err
	}
	if err := ValidateCVV(in.CVV); err != nil {
		fe[FieldCVV] = err
	}
	return fe
}
