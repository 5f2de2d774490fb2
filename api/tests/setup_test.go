package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/api/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer boots a full server against an in-memory sqlite
// database. Rate limiting is left off so tests on the same IP do not
// starve one another.
func newTestServer(t *testing.T) *controllers.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	// A single connection keeps every query on the same :memory:
	// database and lets the foreign key pragma stick.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	server := &controllers.Server{}
	server.Bootstrap(db, "../templates/*.html", false)
	return server
}

// browser drives the server the way a real browser would: it carries
// cookies between requests so sessions and flashes survive redirects.
type browser struct {
	t       *testing.T
	server  *controllers.Server
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, server *controllers.Server) *browser {
	return &browser{t: t, server: server, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		b.t.Fatalf("Failed to build request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	b.server.Router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, target, form)
}

// signup registers an account through the signup form, leaving the
// browser signed in.
func (b *browser) signup(username, email, password string) {
	b.t.Helper()
	w := b.post("/signup", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	if w.Code != http.StatusFound {
		b.t.Fatalf("Signup of %q failed with status %d: %s", username, w.Code, w.Body.String())
	}
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.post("/login", url.Values{
		"username": {username},
		"password": {password},
	})
}

func (b *browser) logout() {
	b.t.Helper()
	w := b.post("/logout", nil)
	if w.Code != http.StatusFound {
		b.t.Fatalf("Logout failed with status %d", w.Code)
	}
}
