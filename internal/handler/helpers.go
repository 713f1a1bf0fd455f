package handler

import (
	"personal-blog/internal/forms"
	"personal-blog/internal/middleware"
	"personal-blog/internal/util"

	"github.com/gin-gonic/gin"
)

// render executes an HTML template with the current user and any
// pending flash message merged into the data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["user"]; !ok {
		data["user"] = middleware.UserFrom(c)
	}
	if _, ok := data["flash"]; !ok {
		data["flash"] = util.PopFlash(c)
	}
	// templates index field errors unconditionally
	if _, ok := data["errors"]; !ok {
		data["errors"] = forms.Errors{}
	}
	c.HTML(status, name, data)
}

// renderError terminates the request with the generic error page.
func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"status":  status,
		"message": message,
	})
	c.Abort()
}
