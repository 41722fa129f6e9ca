// Package validate checks submitted form values and reports every violation
// in one pass as human-readable messages.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxDetailsLength bounds the free-text description of a report.
const MaxDetailsLength = 1000

var (
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Violations is the ordered list of problems found in one input.
type Violations []string

func (v Violations) Error() string {
	return strings.Join(v, " • ")
}

// Err returns v as an error, or nil when there are no violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ReportInput is the client-side report form.
type ReportInput struct {
	Name     string `json:"name" validate:"notblank"`
	College  string `json:"college" validate:"notblank"`
	Email    string `json:"email,omitempty"`
	Category string `json:"category,omitempty"`
	Details  string `json:"details" validate:"notblank,max=1000"`
}

// MemberInput is the client-side membership form. Photo is a data URL.
type MemberInput struct {
	Name     string `json:"name" validate:"notblank"`
	College  string `json:"college" validate:"notblank"`
	Email    string `json:"email" validate:"notblank,emailshape"`
	WhatsApp string `json:"whatsapp" validate:"notblank,whatsapp"`
	Photo    string `json:"photo,omitempty" validate:"required"`
}

var messages = map[string]string{
	"name.notblank":     "Name is required",
	"college.notblank":  "College is required",
	"email.notblank":    "Email is required",
	"email.emailshape":  "Please enter a valid email",
	"whatsapp.notblank": "WhatsApp number is required",
	"whatsapp.whatsapp": "Please enter a valid 10-digit WhatsApp number",
	"photo.required":    "Photo is required",
	"details.notblank":  "Please describe the problem",
	"details.max":       "Problem details are too long (max 1000 chars)",
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Engine returns the shared validator with the custom rules registered.
func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return !IsBlank(fl.Field().String())
		})
		_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("whatsapp", func(fl validator.FieldLevel) bool {
			return IsWhatsApp(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s against its validate tags and maps failures to messages.
func Struct(s any) Violations {
	err := Engine().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Violations{err.Error()}
	}
	// Missing fields are listed before malformed ones, each group in field order.
	out := make(Violations, 0, len(fieldErrs))
	for _, presence := range []bool{true, false} {
		for _, fe := range fieldErrs {
			if isPresenceTag(fe.Tag()) == presence {
				out = append(out, message(fe))
			}
		}
	}
	return out
}

func isPresenceTag(tag string) bool {
	return tag == "notblank" || tag == "required"
}

// Report applies the report form rules.
func Report(in ReportInput) Violations {
	return Struct(in)
}

// Member applies the membership form rules; the photo is mandatory.
func Member(in MemberInput) Violations {
	return Struct(in)
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmail checks the local@domain.tld shape with no whitespace.
func IsEmail(s string) bool {
	return emailShape.MatchString(s)
}

// NormalizeWhatsApp strips non-digits and keeps the last 10 digits.
func NormalizeWhatsApp(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// IsWhatsApp reports whether s holds a 10-digit mobile number starting 6-9.
func IsWhatsApp(s string) bool {
	return indianMobile.MatchString(NormalizeWhatsApp(s))
}

// TrimDetails cuts details to MaxDetailsLength characters, the way a bounded
// input field would while typing.
func TrimDetails(s string) string {
	if utf8.RuneCountInString(s) <= MaxDetailsLength {
		return s
	}
	return string([]rune(s)[:MaxDetailsLength])
}
