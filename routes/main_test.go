package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"blogserver/auth"
	"blogserver/config"
	"blogserver/db"
	"blogserver/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type stubSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (s *stubSender) Send(to, subject, body string) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *auth.Issuer
	mailer *stubSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	cfg := &config.Config{
		FrontendURL: "http://frontend.test",
		UploadsDir:  t.TempDir(),
	}
	issuer := auth.NewIssuer("test-secret", time.Hour, time.Hour, time.Hour)
	mailer := &stubSender{}

	handler := NewHandler(database, cfg, issuer, mailer, zerolog.Nop())
	app := fiber.New()
	SetupRoutes(app, handler)

	return &testEnv{app: app, db: database, tokens: issuer, mailer: mailer}
}

// request sends a JSON request through the app, optionally with a bearer
// token, and returns the response.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func bodyMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	msg, _ := body["message"].(string)
	return msg
}

func (e *testEnv) createUser(t *testing.T, username, email, password string, active bool) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, Password: hash, IsActive: active}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) accessToken(t *testing.T, userID uint) string {
	t.Helper()
	access, _, err := e.tokens.IssuePair(userID)
	require.NoError(t, err)
	return access
}

func (e *testEnv) createCategory(t *testing.T, title string, parentID *uint) models.Category {
	t.Helper()
	category := models.Category{Title: title, ParentID: parentID}
	require.NoError(t, e.db.Create(&category).Error)
	return category
}

func (e *testEnv) createTag(t *testing.T, title string) models.Tag {
	t.Helper()
	tag := models.Tag{Title: title}
	require.NoError(t, e.db.Create(&tag).Error)
	return tag
}

func (e *testEnv) createBlog(t *testing.T, title string, author models.User, category *models.Category, createdAt time.Time, tags ...models.Tag) models.Blog {
	t.Helper()
	blog := models.Blog{
		Title:       title,
		Description: "body of " + title,
		AuthorID:    author.ID,
		CreatedAt:   createdAt,
		Active:      true,
	}
	if category != nil {
		blog.CategoryID = &category.ID
	}
	if len(tags) > 0 {
		blog.Tags = tags
	}
	require.NoError(t, e.db.Create(&blog).Error)
	return blog
}
