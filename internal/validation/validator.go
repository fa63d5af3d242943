package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/taskboard-pm/apiserver/internal/apierr"
)

// MessageOverrider lets a schema replace the message of a single field rule.
// Keys have the form "<json field>.<tag>".
type MessageOverrider interface {
	Messages() map[string]string
}

// UnknownAllower opts a schema out of unknown-field rejection.
type UnknownAllower interface {
	AllowUnknown() bool
}

// Defaulter fills declared defaults after a payload passed validation.
type Defaulter interface {
	ApplyDefaults()
}

// Validator checks request schemas and renders violations as client messages.
// It is safe for concurrent use once constructed.
type Validator struct {
	validate     *validator.Validate
	trans        ut.Translator
	maxBodyBytes int64
}

// DefaultMaxBodyBytes bounds JSON request bodies read by Body.
const DefaultMaxBodyBytes int64 = 1 << 20

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns the process-wide Validator.
func Default() *Validator {
	defaultOnce.Do(func() {
		v, err := New()
		if err != nil {
			panic(fmt.Sprintf("validation: build default validator: %v", err))
		}
		defaultValidator = v
	})
	return defaultValidator
}

// New builds a Validator with the custom rules and English messages registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, ok := jsonFieldName(sf)
		if !ok {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"object_id":   func(fl validator.FieldLevel) bool { return IsObjectID(fl.Field().String()) },
		"uuid_rule":   func(fl validator.FieldLevel) bool { return IsUUID(fl.Field().String()) },
		"nonempty":    func(fl validator.FieldLevel) bool { return fl.Field().Len() > 0 },
		"strict_trim": hasNoOuterSpace,
		"iso_date":    func(fl validator.FieldLevel) bool { _, ok := ParseDate(fl.Field().String()); return ok },
		"date_value":  func(fl validator.FieldLevel) bool { _, ok := ParseDateValue(fl.Field().String()); return ok },
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %s rule: %w", tag, err)
		}
	}

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")

	v := &Validator{validate: validate, trans: trans, maxBodyBytes: DefaultMaxBodyBytes}
	if err := v.registerMessages(); err != nil {
		return nil, err
	}
	return v, nil
}

// WithMaxBodyBytes returns a Validator sharing v's rules whose Body stages
// reject bodies larger than n bytes. Non-positive n keeps the current limit.
func (v *Validator) WithMaxBodyBytes(n int64) *Validator {
	if n <= 0 {
		return v
	}
	limited := *v
	limited.maxBodyBytes = n
	return &limited
}

func hasNoOuterSpace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == strings.TrimSpace(s)
}

// Struct validates an already populated schema value.
func (v *Validator) Struct(dst any) error {
	found := v.violations(dst, nil)
	if len(found) > 0 {
		return newValidationError(found)
	}
	return nil
}

type violation struct {
	field   int
	message string
}

func newValidationError(found []violation) error {
	sort.SliceStable(found, func(i, j int) bool { return found[i].field < found[j].field })
	messages := make([]string, 0, len(found))
	for _, f := range found {
		messages = append(messages, f.message)
	}
	return apierr.Unprocessable(strings.Join(messages, ". "))
}

// violations runs the struct tags and returns one message per failing field.
// Fields listed in skip already produced a type error and are not reported twice.
func (v *Validator) violations(dst any, skip map[string]bool) []violation {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []violation{{message: err.Error()}}
	}

	var overrides map[string]string
	if o, ok := dst.(MessageOverrider); ok {
		overrides = o.Messages()
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	found := make([]violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		top := topSegment(fe.Namespace())
		if skip[top] {
			continue
		}

		index := t.NumField()
		if sf, ok := t.FieldByName(topSegment(fe.StructNamespace())); ok {
			index = sf.Index[0]
		}

		message, ok := overrides[top+"."+fe.Tag()]
		if !ok {
			message = fe.Translate(v.trans)
		}
		found = append(found, violation{field: index, message: message})
	}
	return found
}

// topSegment turns "CreateCard.assignees[1]" into "assignees".
func topSegment(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	if i := strings.IndexAny(namespace, ".["); i >= 0 {
		namespace = namespace[:i]
	}
	return namespace
}

func jsonFieldName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, true
}
