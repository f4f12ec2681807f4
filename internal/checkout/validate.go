package checkout

import (
	"regexp"
	"strings"

	"github.com/Lixing-Zhang/kart-challenge/restaurant-app/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\d{7,15}$`)
)

// ValidationError names the first checkout field that failed
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the form in display order and returns the first failure.
// Patterns are matched against the raw input, so surrounding spaces in the
// email or phone fail.
func Validate(form models.Customer, lines []models.CartLine) error {
	switch {
	case strings.TrimSpace(form.Name) == "":
		return &ValidationError{Field: "name", Message: "Please enter your full name"}
	case strings.TrimSpace(form.Email) == "" || !emailPattern.MatchString(form.Email):
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	case strings.TrimSpace(form.Phone) == "" || !phonePattern.MatchString(form.Phone):
		return &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
	case strings.TrimSpace(form.Address) == "":
		return &ValidationError{Field: "address", Message: "Please enter your delivery address"}
	case len(lines) == 0:
		return &ValidationError{Field: "cart", Message: "Your cart is empty"}
	}
	return nil
}
