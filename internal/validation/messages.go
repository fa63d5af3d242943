package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// translation keys are "<tag>" or "<tag>-<shape>" where shape depends on the field kind.
var messageTemplates = map[string]string{
	"required":         `"{0}" is required`,
	"nonempty":         `"{0}" is not allowed to be empty`,
	"strict_trim":      `"{0}" must not have leading or trailing whitespace`,
	"min-string":       `"{0}" length must be at least {1} characters long`,
	"min-items":        `"{0}" must contain at least {1} items`,
	"min-number":       `"{0}" must be greater than or equal to {1}`,
	"max-string":       `"{0}" length must be less than or equal to {1} characters long`,
	"max-items":        `"{0}" must contain less than or equal to {1} items`,
	"max-number":       `"{0}" must be less than or equal to {1}`,
	"len-string":       `"{0}" length must be {1} characters long`,
	"len-items":        `"{0}" must contain {1} items`,
	"gte":              `"{0}" must be greater than or equal to {1}`,
	"oneof":            `"{0}" must be one of [{1}]`,
	"email":            `"{0}" must be a valid email`,
	"url":              `"{0}" must be a valid uri`,
	"eqfield":          `"{0}" must match "{1}"`,
	"iso_date":         `"{0}" must be a valid ISO 8601 date`,
	"date_value":       `"{0}" must be a valid date`,
	"object_id":        ObjectIDMessage,
	"uuid_rule":        UUIDMessage,
	"unknown-fallback": `"{0}" failed on the {1} rule`,
}

var shapedTags = map[string]bool{"min": true, "max": true, "len": true}

func (v *Validator) registerMessages() error {
	for key, text := range messageTemplates {
		if err := v.trans.Add(key, text, false); err != nil {
			return fmt.Errorf("add %s message: %w", key, err)
		}
	}

	tags := []string{"min", "max", "len"}
	for key := range messageTemplates {
		if !strings.Contains(key, "-") {
			tags = append(tags, key)
		}
	}

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		if err := v.validate.RegisterTranslation(tag, v.trans, registerFn, translate); err != nil {
			return fmt.Errorf("register %s translation: %w", tag, err)
		}
	}
	return nil
}

func translate(trans ut.Translator, fe validator.FieldError) string {
	key := fe.Tag()
	if shapedTags[key] {
		key += "-" + shapeOf(fe.Kind())
	}

	param := fe.Param()
	switch fe.Tag() {
	case "oneof":
		param = strings.Join(strings.Fields(param), ", ")
	case "eqfield":
		param = lowerFirst(param)
	}

	msg, err := trans.T(key, fe.Field(), param)
	if err != nil {
		msg, err = trans.T("unknown-fallback", fe.Field(), fe.Tag())
		if err != nil {
			return fe.Error()
		}
	}
	return msg
}

func shapeOf(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "items"
	default:
		return "number"
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
