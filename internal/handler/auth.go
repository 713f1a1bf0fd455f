package handler

import (
	"errors"
	"net/http"
	"strings"

	"personal-blog/internal/forms"
	"personal-blog/internal/middleware"
	"personal-blog/internal/store"
	"personal-blog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Users      *store.Users
	Sessions   *store.Sessions
	Secret     string
	CookieName string
	BcryptCost int
}

func NewAuthHandler(users *store.Users, sessions *store.Sessions, secret, cookieName string, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		Users:      users,
		Sessions:   sessions,
		Secret:     secret,
		CookieName: cookieName,
		BcryptCost: bcryptCost,
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "register.html", gin.H{"form": &forms.RegisterForm{}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form forms.RegisterForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) > 0 {
		render(c, http.StatusBadRequest, "register.html", gin.H{"form": &form, "errors": errs})
		return
	}

	hash, err := util.HashPassword(form.Password, h.BcryptCost)
	if err != nil {
		logrus.WithError(err).Error("hash password")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	user, err := h.Users.Create(form.Username, form.Email, hash)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			errs["username"] = "this username already exists"
		case errors.Is(err, store.ErrDuplicateEmail):
			errs["email"] = "this email already exists"
		default:
			logrus.WithError(err).Error("register user")
			renderError(c, http.StatusInternalServerError, "something went wrong")
			return
		}
		render(c, http.StatusBadRequest, "register.html", gin.H{"form": &form, "errors": errs})
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).
		Info("user registered")
	util.SetFlash(c, "success", "you registered successfully")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"form": &forms.LoginForm{},
		"next": c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form forms.LoginForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) > 0 {
		render(c, http.StatusBadRequest, "login.html", gin.H{
			"form": &form, "errors": errs, "next": c.Query("next"),
		})
		return
	}

	user, err := h.Users.FindByEmail(form.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logrus.WithError(err).Error("find user for login")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	// same rejection for unknown email and wrong password
	if user == nil || !util.CheckPassword(form.Password, user.PasswordHash) {
		logrus.WithField("email", form.Email).Warn("failed login attempt")
		render(c, http.StatusUnauthorized, "login.html", gin.H{
			"form":    &form,
			"message": "email or password is wrong",
			"next":    c.Query("next"),
		})
		return
	}

	sess, err := h.Sessions.Create(user.ID, form.Remember)
	if err != nil {
		logrus.WithError(err).Error("create session")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	token, err := util.GenerateToken(h.Secret, sess.ID, user.ID, h.Sessions.TTLFor(form.Remember))
	if err != nil {
		logrus.WithError(err).Error("sign session token")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	// remember keeps the cookie across browser restarts; otherwise it is
	// a browser-session cookie and the server-side row still caps its life
	maxAge := 0
	if form.Remember {
		maxAge = int(h.Sessions.RememberTTL().Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, token, maxAge, "/", "", false, true)

	logrus.WithField("user_id", user.ID).Info("user logged in")
	util.SetFlash(c, "success", "you logged in successfully")
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.SessionFrom(c); sess != nil {
		if err := h.Sessions.Revoke(sess.ID); err != nil {
			logrus.WithError(err).Error("revoke session")
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)

	util.SetFlash(c, "success", "you logged out successfully")
	c.Redirect(http.StatusFound, "/")
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
