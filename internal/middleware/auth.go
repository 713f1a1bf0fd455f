package middleware

import (
	"net/http"
	"net/url"

	"personal-blog/internal/models"
	"personal-blog/internal/store"
	"personal-blog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserKey    = "currentUser"
	currentSessionKey = "currentSession"
)

// CurrentUser resolves the session cookie and attaches the logged-in
// user, if any, to the request context. Anonymous requests pass through;
// route protection is RequireLogin's job.
func CurrentUser(secret, cookieName string, sessions *store.Sessions, users *store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(secret, tokenStr)
		if err != nil {
			c.Next()
			return
		}

		// the token is only a pointer to the server-side session;
		// a revoked or expired row wins over a valid signature
		sess, err := sessions.Get(claims.SessionID)
		if err != nil || sess.UserID != claims.UserID {
			c.Next()
			return
		}

		user, err := users.FindByID(sess.UserID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"session": sess.ID,
				"user_id": sess.UserID,
			}).Warn("session points at missing user")
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Set(currentSessionKey, sess)
		c.Next()
	}
}

// RequireLogin aborts anonymous requests with a redirect to the login
// page, preserving the intended destination in the next parameter.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			util.SetFlash(c, "info", "please login")
			c.Redirect(http.StatusFound, "/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the user attached by CurrentUser, or nil.
func UserFrom(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SessionFrom returns the live session attached by CurrentUser, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(currentSessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
