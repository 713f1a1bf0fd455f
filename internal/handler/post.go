package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"personal-blog/internal/forms"
	"personal-blog/internal/middleware"
	"personal-blog/internal/models"
	"personal-blog/internal/store"
	"personal-blog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PostHandler serves the post listing, detail pages and the owner-only
// create/update/delete flows.
type PostHandler struct {
	Posts    *store.Posts
	PageSize int
}

func NewPostHandler(posts *store.Posts, pageSize int) *PostHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PostHandler{Posts: posts, PageSize: pageSize}
}

// Home lists posts newest first, paginated via ?page=N.
func (h *PostHandler) Home(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.Posts.ListPage(page, h.PageSize)
	if err != nil {
		logrus.WithError(err).Error("list posts")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{"page": result})
}

// Detail shows a single post.
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "detail.html", gin.H{"post": post})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	render(c, http.StatusOK, "post_form.html", gin.H{
		"title":  "New Post",
		"action": "/post/new",
		"form":   &forms.PostForm{},
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.UserFrom(c)

	var form forms.PostForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) > 0 {
		render(c, http.StatusBadRequest, "post_form.html", gin.H{
			"title":  "New Post",
			"action": "/post/new",
			"form":   &form,
			"errors": errs,
		})
		return
	}

	post, err := h.Posts.Create(form.Title, form.Content, user.ID)
	if err != nil {
		logrus.WithError(err).Error("create post")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "user_id": user.ID}).
		Info("post created")
	util.SetFlash(c, "success", "post created")
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) ShowUpdate(c *gin.Context) {
	post, ok := h.loadOwnPost(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "post_form.html", gin.H{
		"title":  "Update Post",
		"action": fmt.Sprintf("/post/%d/update", post.ID),
		"form":   &forms.PostForm{Title: post.Title, Content: post.Content},
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.loadOwnPost(c)
	if !ok {
		return
	}

	var form forms.PostForm
	_ = c.ShouldBind(&form)

	errs := form.Validate()
	if len(errs) > 0 {
		render(c, http.StatusBadRequest, "post_form.html", gin.H{
			"title":  "Update Post",
			"action": fmt.Sprintf("/post/%d/update", post.ID),
			"form":   &form,
			"errors": errs,
		})
		return
	}

	if err := h.Posts.Update(post.ID, form.Title, form.Content); err != nil {
		logrus.WithError(err).Error("update post")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	util.SetFlash(c, "info", "post updated")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

// ShowDelete renders a confirmation page; the destructive effect only
// happens on the POST.
func (h *PostHandler) ShowDelete(c *gin.Context) {
	post, ok := h.loadOwnPost(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "post_delete.html", gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.loadOwnPost(c)
	if !ok {
		return
	}

	if err := h.Posts.Delete(post.ID); err != nil {
		logrus.WithError(err).Error("delete post")
		renderError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "user_id": post.UserID}).
		Info("post deleted")
	util.SetFlash(c, "info", "post deleted")
	c.Redirect(http.StatusFound, "/")
}

// loadPost parses the :id parameter and fetches the post, rendering 404
// on failure.
func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		renderError(c, http.StatusNotFound, "post not found")
		return nil, false
	}

	post, err := h.Posts.Get(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			renderError(c, http.StatusNotFound, "post not found")
		} else {
			logrus.WithError(err).Error("get post")
			renderError(c, http.StatusInternalServerError, "something went wrong")
		}
		return nil, false
	}
	return post, true
}

// loadOwnPost additionally enforces ownership. The check runs on every
// mutating request; nothing is carried over from earlier requests.
func (h *PostHandler) loadOwnPost(c *gin.Context) (*models.Post, bool) {
	post, ok := h.loadPost(c)
	if !ok {
		return nil, false
	}

	user := middleware.UserFrom(c)
	if user == nil || post.UserID != user.ID {
		logrus.WithFields(logrus.Fields{
			"post_id": post.ID,
			"owner":   post.UserID,
		}).Warn("forbidden post access")
		renderError(c, http.StatusForbidden, "you are not the author of this post")
		return nil, false
	}
	return post, true
}
