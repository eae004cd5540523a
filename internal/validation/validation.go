// Package validation checks submissions at the API boundary before they
// reach the store.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/groupdir/internal/models"
)

// InviteHost is the host every WhatsApp group invite link must point at.
const InviteHost = "chat.whatsapp.com"

var (
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrInvalidUsername = errors.New("username must be 3-32 characters of letters, digits, '.', '_' or '-'")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// FieldError describes one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is returned when a submission fails validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsCategory(fl.Field().String())
	}))
	must(v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return models.IsCountry(fl.Field().String())
	}))
	must(v.RegisterValidation("whatsapp_invite", func(fl validator.FieldLevel) bool {
		return IsInviteLink(fl.Field().String())
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Group validates a submission and returns it with category and country
// normalized to their catalog spelling.
func Group(in models.GroupInput) (models.GroupInput, error) {
	in.GroupName = strings.TrimSpace(in.GroupName)
	in.WhatsAppLink = strings.TrimSpace(in.WhatsAppLink)
	if c, ok := models.CanonicalCategory(in.Category); ok {
		in.Category = c
	}
	if c, ok := models.CanonicalCountry(in.Country); ok {
		in.Country = c
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return in, toError(verrs)
		}
		return in, fmt.Errorf("validate group: %w", err)
	}
	return in, nil
}

// Credentials validates a username and password pair for registration.
func Credentials(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// IsInviteLink reports whether link is an absolute http(s) URL on
// InviteHost with an invite code in the path.
func IsInviteLink(link string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	if !strings.EqualFold(u.Hostname(), InviteHost) {
		return false
	}
	return strings.Trim(u.Path, "/") != ""
}

func toError(verrs validator.ValidationErrors) *Error {
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "category":
		return "must be one of " + strings.Join(models.Categories, ", ")
	case "country":
		return "must be one of " + strings.Join(models.Countries, ", ")
	case "whatsapp_invite":
		return "must be a valid WhatsApp invite link (https://" + InviteHost + "/...)"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
