package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldError 首个失败字段的可读描述，仍可 errors.As 为 validator.ValidationErrors
type FieldError struct {
	msg  string
	errs validator.ValidationErrors
}

func (e *FieldError) Error() string { return e.msg }

func (e *FieldError) Unwrap() error { return e.errs }

// ValidateDTO 按 validate 标签校验 DTO
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return &FieldError{
				msg:  fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", firstError.Field(), firstError.Tag()),
				errs: vErrs,
			}
		}
		return err
	}
	return nil
}
