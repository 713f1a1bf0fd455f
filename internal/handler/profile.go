package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"personal-blog/internal/forms"
	"personal-blog/internal/middleware"
	"personal-blog/internal/store"
	"personal-blog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ProfileHandler serves the own-account page: view/update username and
// email, and export of the user's posts.
type ProfileHandler struct {
	Users *store.Users
	Posts *store.Posts
}

func NewProfileHandler(users *store.Users, posts *store.Posts) *ProfileHandler {
	return &ProfileHandler{Users: users, Posts: posts}
}

func (h *ProfileHandler) Show(c *gin.Context) {
	user := middleware.UserFrom(c)

	count, err := h.Posts.CountForUser(user.ID)
	if err != nil {
		logrus.WithError(err).Error("count posts for profile")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"form":      &forms.ProfileForm{Username: user.Username, Email: user.Email},
		"postCount": count,
	})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	user := middleware.UserFrom(c)

	var form forms.ProfileForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) == 0 {
		if _, err := h.Users.UpdateProfile(user.ID, form.Username, form.Email); err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicateUsername):
				errs["username"] = "this username already exists"
			case errors.Is(err, store.ErrDuplicateEmail):
				errs["email"] = "this email already exists"
			default:
				logrus.WithError(err).Error("update profile")
				renderError(c, http.StatusInternalServerError, "something went wrong")
				return
			}
		}
	}

	if len(errs) > 0 {
		count, _ := h.Posts.CountForUser(user.ID)
		render(c, http.StatusBadRequest, "profile.html", gin.H{
			"form":      &form,
			"errors":    errs,
			"postCount": count,
		})
		return
	}

	logrus.WithField("user_id", user.ID).Info("profile updated")
	util.SetFlash(c, "info", "account updated")
	c.Redirect(http.StatusFound, "/profile")
}

// Export downloads all of the current user's posts as an XLSX file.
func (h *ProfileHandler) Export(c *gin.Context) {
	user := middleware.UserFrom(c)

	posts, err := h.Posts.ListForUser(user.ID)
	if err != nil {
		logrus.WithError(err).Error("list posts for export")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	f := excelize.NewFile()
	const sheetName = "Posts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Title", "Content", "Created"}
	for i, name := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, name)
	}

	for idx, p := range posts {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Content)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.CreatedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 80)
	f.SetColWidth(sheetName, "D", "D", 18)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		logrus.WithError(err).Error("write xlsx export")
	}
}
