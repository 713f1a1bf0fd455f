package router_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"personal-blog/internal/config"
	"personal-blog/internal/models"
	"personal-blog/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Session{}))

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Session:  config.SessionConfig{Secret: "test-secret", CookieName: "blog_session", ExpireHours: 24, RememberDays: 30},
		Security: config.SecurityConfig{BcryptCost: 4},
		App:      config.AppSubConfig{PageSize: 10},
	}
	return router.New(cfg, db, "../../web/templates/*"), db
}

// client is a minimal cookie-carrying browser over ServeHTTP.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
		} else {
			c.cookies[ck.Name] = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

func (c *client) register(username, email, password string) *httptest.ResponseRecorder {
	return c.postForm("/register", url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	return c.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func TestRegisterLoginPostOwnershipFlow(t *testing.T) {
	app, db := newTestApp(t)
	alice := newClient(t, app)

	// register alice
	w := alice.register("alice", "a@x.com", "pw123")
	require.Equal(t, http.StatusFound, w.Code)

	// a second alice is rejected and does not add a row
	w = alice.register("alice", "b@x.com", "pw456")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)

	// wrong password leaves the visitor anonymous
	w = alice.login("a@x.com", "wrongpw")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "email or password is wrong")
	assert.NotContains(t, alice.cookies, "blog_session")

	w = alice.get("/profile")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?next=")

	// correct login attaches the identity
	w = alice.login("a@x.com", "pw123")
	require.Equal(t, http.StatusFound, w.Code)
	require.Contains(t, alice.cookies, "blog_session")

	w = alice.get("/profile")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")

	// create a post as alice
	w = alice.postForm("/post/new", url.Values{"title": {"Hello"}, "content": {"World"}})
	require.Equal(t, http.StatusFound, w.Code)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Hello", post.Title)

	var aliceUser models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&aliceUser).Error)
	assert.Equal(t, aliceUser.ID, post.UserID)

	postPath := fmt.Sprintf("/post/%d", post.ID)
	w = alice.get(postPath)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello")
	assert.Contains(t, w.Body.String(), "World")

	// bob cannot touch alice's post
	bob := newClient(t, app)
	require.Equal(t, http.StatusFound, bob.register("bob", "b@x.com", "pw456").Code)
	require.Equal(t, http.StatusFound, bob.login("b@x.com", "pw456").Code)

	w = bob.postForm(postPath+"/delete", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = bob.postForm(postPath+"/update", url.Values{"title": {"Hacked"}, "content": {"x"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = alice.get(postPath)
	assert.Equal(t, http.StatusOK, w.Code, "post must survive forbidden attempts")
	assert.Contains(t, w.Body.String(), "Hello")

	// the owner can update and delete
	w = alice.postForm(postPath+"/update", url.Values{"title": {"Hi"}, "content": {"There"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.get(postPath)
	assert.Contains(t, w.Body.String(), "Hi")

	w = alice.postForm(postPath+"/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.get(postPath)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// logout drops the identity
	w = alice.get("/logout")
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.get("/profile")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestLogoutRevokesSessionServerSide(t *testing.T) {
	app, _ := newTestApp(t)
	alice := newClient(t, app)

	require.Equal(t, http.StatusFound, alice.register("alice", "a@x.com", "pw123").Code)
	require.Equal(t, http.StatusFound, alice.login("a@x.com", "pw123").Code)

	// keep the cookie around past logout, as a stolen token would be
	stolen := *alice.cookies["blog_session"]

	require.Equal(t, http.StatusFound, alice.get("/logout").Code)

	alice.cookies["blog_session"] = &stolen
	w := alice.get("/profile")
	assert.Equal(t, http.StatusFound, w.Code, "revoked session must not authenticate")
}

func TestProfileUpdate(t *testing.T) {
	app, _ := newTestApp(t)

	alice := newClient(t, app)
	require.Equal(t, http.StatusFound, alice.register("alice", "a@x.com", "pw123").Code)
	require.Equal(t, http.StatusFound, alice.login("a@x.com", "pw123").Code)

	bob := newClient(t, app)
	require.Equal(t, http.StatusFound, bob.register("bob", "b@x.com", "pw456").Code)

	// taking bob's username fails inline
	w := alice.postForm("/profile", url.Values{"username": {"bob"}, "email": {"a@x.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// a fresh identity works and sticks
	w = alice.postForm("/profile", url.Values{"username": {"alice2"}, "email": {"a2@x.com"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.get("/profile")
	assert.Contains(t, w.Body.String(), "alice2")
	assert.Contains(t, w.Body.String(), "a2@x.com")
}

func TestHomePaginationAndDetail404(t *testing.T) {
	app, db := newTestApp(t)
	visitor := newClient(t, app)

	// empty home renders
	w := visitor.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet")

	// unknown post is a 404 page
	w = visitor.get("/post/42")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = visitor.get("/post/not-a-number")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// fill two pages worth of posts
	author := newClient(t, app)
	require.Equal(t, http.StatusFound, author.register("alice", "a@x.com", "pw123").Code)
	require.Equal(t, http.StatusFound, author.login("a@x.com", "pw123").Code)
	for i := 0; i < 12; i++ {
		w = author.postForm("/post/new", url.Values{"title": {fmt.Sprintf("title %d", i)}, "content": {"content"}})
		require.Equal(t, http.StatusFound, w.Code)
	}

	var total int64
	require.NoError(t, db.Model(&models.Post{}).Count(&total).Error)
	require.EqualValues(t, 12, total)

	w = visitor.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "page 1 of 2")

	w = visitor.get("/?page=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "page 2 of 2")

	// past the end is an empty page, not an error
	w = visitor.get("/?page=99")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet")
}

func TestLoginNextRedirect(t *testing.T) {
	app, _ := newTestApp(t)
	alice := newClient(t, app)

	require.Equal(t, http.StatusFound, alice.register("alice", "a@x.com", "pw123").Code)

	w := alice.get("/post/new")
	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	require.Contains(t, loc, "/login?next=")

	w = alice.postForm("/login?next=%2Fpost%2Fnew", url.Values{
		"email": {"a@x.com"}, "password": {"pw123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/post/new", w.Header().Get("Location"))

	// off-site next values are ignored
	require.Equal(t, http.StatusFound, alice.get("/logout").Code)
	w = alice.postForm("/login?next=https%3A%2F%2Fevil.example", url.Values{
		"email": {"a@x.com"}, "password": {"pw123"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
