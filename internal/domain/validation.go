package domain

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidCustomerName = errors.New("invalid customer name")
	ErrInvalidPhone        = errors.New("invalid phone")
	ErrInvalidNote         = errors.New("invalid note")
)

// ValidateCustomerName проверяет имя клиента (пробелы уже обрезаны)
func ValidateCustomerName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: customer_name is required", ErrInvalidCustomerName)
	}
	if utf8.RuneCountInString(name) > MaxCustomerNameLength {
		return fmt.Errorf("%w: customer_name must not exceed %d characters", ErrInvalidCustomerName, MaxCustomerNameLength)
	}
	return nil
}

// ValidatePhone допускает цифры, пробелы, скобки, дефисы и ведущий плюс
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidPhone)
	}
	if len(phone) > MaxPhoneLength {
		return fmt.Errorf("%w: phone must not exceed %d characters", ErrInvalidPhone, MaxPhoneLength)
	}

	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return fmt.Errorf("%w: phone contains invalid character %q", ErrInvalidPhone, r)
		}
	}

	if digits < MinPhoneDigits {
		return fmt.Errorf("%w: phone must contain at least %d digits", ErrInvalidPhone, MinPhoneDigits)
	}
	return nil
}

// ValidateNote проверяет длину заметки
func ValidateNote(note *string) error {
	if note != nil && utf8.RuneCountInString(*note) > MaxNoteLength {
		return fmt.Errorf("%w: note must not exceed %d characters", ErrInvalidNote, MaxNoteLength)
	}
	return nil
}
