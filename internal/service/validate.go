package service

import (
	"strings"

	"github.com/go-playground/validator"
)

// GalleryForm is the editable part of a gallery item.
type GalleryForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"max=2000"`
	InSlideView bool   `form:"inSlideView"`
}

// SignInForm holds email/password credentials.
type SignInForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// fieldMessages maps field and failed tag to the message shown next to the field.
var fieldMessages = map[string]map[string]string{
	"title":       {"required": MsgTitleRequired},
	"description": {"max": "Description is too long"},
	"email":       {"required": "Please enter your email address", "email": "Please enter a valid email address"},
	"password":    {"required": "Please enter your password"},
}

// FormValidator checks forms against their validate tags.
type FormValidator struct {
	validator *validator.Validate
}

// NewFormValidator creates a validator reporting fields by their form name.
func NewFormValidator() *FormValidator {
	v := validator.New()
	return &FormValidator{validator: v}
}

// Validate returns a *ValidationError describing every failed field, or nil.
func (fv *FormValidator) Validate(form interface{}) error {
	err := fv.validator.Struct(form)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range errs {
		field := lowerFirst(fe.Field())
		msg := fieldMessages[field][fe.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		verr.Add(field, msg)
	}
	return verr
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
