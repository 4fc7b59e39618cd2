package forms

import (
	"fmt"
	"net/url"
	"strings"
)

// PasswordMaxBytes is the longest input bcrypt will hash.
const PasswordMaxBytes = 72

type RegistrationForm struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"omitempty,max=254,email"`
	Password string `form:"password" validate:"required"`
}

// DecodeRegistration trims everything but the password.
func DecodeRegistration(values url.Values) RegistrationForm {
	return RegistrationForm{
		Username: strings.TrimSpace(values.Get("username")),
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func (f RegistrationForm) Validate() Errors {
	errs := check(f)
	if _, ok := errs["password"]; !ok && len(f.Password) > PasswordMaxBytes {
		errs.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes (it has %d).", PasswordMaxBytes, len(f.Password)))
	}
	return errs
}

type LoginForm struct {
	Username string
	Password string
	Next     string
}

func DecodeLogin(values url.Values) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Next:     values.Get("next"),
	}
}
