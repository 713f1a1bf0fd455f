// Package forms holds the HTML form payloads and their validation.
// Each form validates itself into a field-keyed error map that the
// handlers re-render inline, independent of any template mechanics.
package forms

import (
	"net/mail"
	"regexp"
	"strings"
)

// Errors maps form field name to a human-readable message.
type Errors map[string]string

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

type RegisterForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

func (f *RegisterForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	errs := Errors{}
	if !usernameRe.MatchString(f.Username) {
		errs["username"] = "username must be 3-20 letters, digits or underscores"
	}
	if !validEmail(f.Email) {
		errs["email"] = "enter a valid email address"
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	if f.ConfirmPassword != f.Password {
		errs["confirm_password"] = "passwords do not match"
	}
	return errs
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Remember bool   `form:"remember"`
}

func (f *LoginForm) Validate() Errors {
	f.Email = strings.TrimSpace(f.Email)

	errs := Errors{}
	if !validEmail(f.Email) {
		errs["email"] = "enter a valid email address"
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

type ProfileForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
}

func (f *ProfileForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	errs := Errors{}
	if !usernameRe.MatchString(f.Username) {
		errs["username"] = "username must be 3-20 letters, digits or underscores"
	}
	if !validEmail(f.Email) {
		errs["email"] = "enter a valid email address"
	}
	return errs
}

type PostForm struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

func (f *PostForm) Validate() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)

	errs := Errors{}
	if f.Title == "" {
		errs["title"] = "title is required"
	} else if len(f.Title) > 200 {
		errs["title"] = "title must be at most 200 characters"
	}
	if f.Content == "" {
		errs["content"] = "content is required"
	}
	return errs
}
