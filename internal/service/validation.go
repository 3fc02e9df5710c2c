package service

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernameChars = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
	passwordChars = regexp.MustCompile(`[0-9!@#$%^&*]`)
)

// newValidator builds the validator used on registration and reset payloads.
// Field names in error maps come from the json tags.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return validUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("passwordchars", func(fl validator.FieldLevel) bool {
		return passwordChars.MatchString(fl.Field().String())
	})

	return v
}

// validUsername enforces the username pattern: 3-20 characters, starts with
// a letter or digit, separators ('.', '_', '-') never doubled or trailing.
func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	if !usernameChars.MatchString(username) {
		return false
	}
	for _, pair := range []string{"..", "__", "--", "._", "_.", ".-", "-.", "_-", "-_"} {
		if strings.Contains(username, pair) {
			return false
		}
	}
	return !strings.ContainsAny(username[len(username)-1:], "._-")
}

var validationMessages = map[string]string{
	"required":      "this field is required",
	"email":         "invalid email address",
	"min":           "must be at least 8 characters long",
	"alpha":         "may contain letters only",
	"username":      "3-20 letters, digits or '.', '_', '-', with no doubled or trailing separators",
	"passwordchars": "must contain at least one digit or special character",
}

// fieldErrors converts validator output into a per-field message map.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		return fields
	}
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "invalid value"
		}
		fields[fe.Field()] = msg
	}
	return fields
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
