package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/errs"
)

// validate reports field names by their JSON name so that messages match the request body.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateStruct(i interface{}) error {
	if err := validate.Struct(i); err != nil {
		return validationError(describe("", err))
	}
	return nil
}

// checkField validates a set field of a patch against tag and returns the problems found.
func checkField[T any](name string, f Field[T], tag string, nullable bool) []string {
	if !f.IsSet() {
		return nil
	}
	if f.IsNull() {
		if nullable {
			return nil
		}
		return []string{name + " may not be null"}
	}
	if tag == "" {
		return nil
	}
	v, _ := f.Get()
	if err := validate.Var(v, tag); err != nil {
		return describe(name, err)
	}
	return nil
}

func appendProblem(problems []string, more []string) []string {
	return append(problems, more...)
}

// describe turns a validator error into one message per failed constraint. The field name of
// a single-value validation is empty and is replaced by name.
func describe(name string, err error) []string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if field == "" {
			field = name
		}
		parts = append(parts, field+" failed on "+fe.Tag())
	}
	return parts
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return errs.Errorf(errs.EUNPROCESSABLE, "validation error: %s", strings.Join(problems, "; "))
}
