package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"warbler/auth"
	"warbler/database"
	"warbler/handlers"
	"warbler/repositories"
	"warbler/routes"
)

var testDBSeq atomic.Int64

type testApp struct {
	server   *httptest.Server
	db       *gorm.DB
	users    repositories.UserRepository
	messages repositories.MessageRepository
}

// newTestApp wires the full handler stack over an isolated in-memory
// database and serves it on a test listener.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:viewtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db)
	gate := auth.NewGate("test-secret")

	handler := routes.SetupRoutes(
		handlers.NewUserHandler(users, messages, gate),
		handlers.NewMessageHandler(messages, users, gate),
	)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testApp{server: server, db: db, users: users, messages: messages}
}

// newClients returns two clients sharing one cookie jar: the first follows
// redirects like a browser, the second reports the raw response.
func newClients(t *testing.T) (browser, raw *http.Client) {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	browser = &http.Client{Jar: jar}
	raw = &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return browser, raw
}

// postForm submits a form-encoded POST and returns the final status code
// and body.
func postForm(t *testing.T, client *http.Client, url string, form url.Values) (int, string) {
	t.Helper()

	resp, err := client.Post(url, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func signupForm(username, email, password string) url.Values {
	return url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	}
}

// loginAs signs the client in through the real login view.
func loginAs(t *testing.T, app *testApp, client *http.Client, username, password string) {
	t.Helper()

	status, body := postForm(t, client, app.server.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if status != http.StatusOK || !strings.Contains(body, "Hello, "+username+"!") {
		t.Fatalf("login as %s failed: status %d, body %s", username, status, body)
	}
}
