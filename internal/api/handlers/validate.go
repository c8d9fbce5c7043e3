package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator в сообщениях используются имена полей из json-тегов
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет теги validate у DTO запроса
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// ValidationMessage краткое описание первой ошибки валидации
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("поле %s обязательно", fe.Field()))
		case "min", "max", "gte", "lte":
			parts = append(parts, fmt.Sprintf("поле %s вне допустимого диапазона", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("поле %s должно быть одним из: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("поле %s некорректно", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
