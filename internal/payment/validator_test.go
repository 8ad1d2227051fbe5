package payment

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func TestValidateCardNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"16 digits", "4111111111111111", nil},
		{"grouped", "4111 1111 1111 1111", nil},
		{"dashes", "4111-1111-1111-1111", nil},
		{"12 digits", "411111111111", ErrCardNumberLength},
		{"17 digits", "41111111111111112", ErrCardNumberLength},
		{"letters only", "abcd", ErrCardNumberRequired},
		{"empty", "", ErrCardNumberRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCardNumber(tt.raw); !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("ValidateCardNumber(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateExpirationDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"long expired", "01/20", ErrCardExpired},
		{"last month", "09/26", ErrCardExpired},
		{"current month", "10/26", nil},
		{"next month", "11/26", nil},
		{"next year", "01/27", nil},
		// YY is always 20YY, so 12/99 is December 2099 and still valid.
		{"far future", "12/99", nil},
		{"month zero", "00/27", ErrExpirationMonth},
		{"month 13", "13/27", ErrExpirationMonth},
		{"too short", "1/27", ErrExpirationFormat},
		{"digits only", "1127", nil},
		{"empty", "", ErrExpirationRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateExpirationDate(tt.raw, now)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ValidateExpirationDate(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("ValidateExpirationDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateExpirationDate_AnyLaterYear(t *testing.T) {
	for year := 2021; year <= 2030; year++ {
		at := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		if err := ValidateExpirationDate("01/20", at); !errors.Is(err, ErrCardExpired) {
			t.Errorf("01/20 at %d: got %v, want expired", year, err)
		}
	}
}

func TestValidateCVV(t *testing.T) {
	tests := []struct {
		raw  string
		want error
	}{
		{"123", nil},
		{"12", ErrCVVLength},
		{"1234", ErrCVVLength},
		{"", ErrCVVRequired},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ValidateCVV(tt.raw)
			if (tt.want == nil && got != nil) || !errors.Is(got, tt.want) {
				t.Errorf("ValidateCVV(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatCardNumber("4111111111111111"); got != "4111 1111 1111 1111" {
		t.Errorf("FormatCardNumber = %q", got)
	}
	if got := FormatCardNumber("41111"); got != "4111 1" {
		t.Errorf("FormatCardNumber partial = %q", got)
	}
	tests := map[string]string{
		"1":      "1",
		"12":     "12/",
		"123":    "12/3",
		"1227":   "12/27",
		"12/27":  "12/27",
		"122799": "12/27",
	}
	for in, want := range tests {
		if got := FormatExpirationDate(in); got != want {
			t.Errorf("FormatExpirationDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate_AllFieldsIndependent(t *testing.T) {
	fe := Validate(Input{CardNumber: "411111111111", ExpirationDate: "01/20", CVV: "12"}, now)
	if len(fe) != 3 {
		t.Fatalf("expected 3 field errors, got %v", fe)
	}
	msgs := fe.Messages()
	if msgs[FieldCardNumber] != "Card number must be 16 digits" {
		t.Errorf("card message = %q", msgs[FieldCardNumber])
	}
	if msgs[FieldExpirationDate] != "Card has expired" {
		t.Errorf("expiry message = %q", msgs[FieldExpirationDate])
	}
	if msgs[FieldCVV] != "CVV must be 3 digits" {
		t.Errorf("cvv message = %q", msgs[FieldCVV])
	}
	if fe := Validate(Input{CardNumber: "4111111111111111", ExpirationDate: "12/30", CVV: "123"}, now); len(fe) != 0 {
		t.Fatalf("expected valid input, got %v", fe)
	}
}
