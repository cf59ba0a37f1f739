package validator

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

var ErrTranslatorNotFound = errors.New("validator: english translator not found")

// rule is a custom tag with its English message. {0} is the field name.
type rule struct {
	tag     string
	pattern *regexp.Regexp
	message string
}

var rules = []rule{
	// 72 is the bcrypt input limit.
	{tag: "password", pattern: regexp.MustCompile(`^.{8,72}$`), message: "{0} must be 8-72 characters"},
	{tag: "otc", pattern: regexp.MustCompile(`^[0-9]{4,10}$`), message: "{0} must be a 4-10 digit code"},
}

// V10ValidationError maps snake_case field names to messages.
type V10ValidationError map[string]string

func (e V10ValidationError) Error() string {
	if len(e) == 0 {
		return "validation error"
	}
	//nolint:errchkjson // map[string]string always marshals
	b, _ := json.Marshal(map[string]string(e))
	return string(b)
}

func (e V10ValidationError) Values() map[string]string { return e }

type V10Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	trans, ok := ut.New(english, english).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := entrans.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := register(v, trans, r); err != nil {
			return nil, err
		}
	}

	return &V10Validator{v: v, trans: trans}, nil
}

func register(v *validator.Validate, trans ut.Translator, r rule) error {
	err := v.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && r.pattern.MatchString(s)
	})
	if err != nil {
		return err
	}

	return v.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error { return t.Add(r.tag, r.message, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(fe.Tag(), fe.Field())
			return msg
		},
	)
}

// Validate returns V10ValidationError when any tag fails; other errors, such
// as passing a non-struct, come back unchanged.
func (x *V10Validator) Validate(data any) error {
	err := x.v.Struct(data)

	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}

	return V10ValidationError(lo.SliceToMap([]validator.FieldError(fes), func(fe validator.FieldError) (string, string) {
		return lo.SnakeCase(fe.Field()), fe.Translate(x.trans)
	}))
}
