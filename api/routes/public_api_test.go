package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tattoola/db"
	"tattoola/models"
)

const testAdminToken = "admin-secret"

type testUser struct {
	ID    uuid.UUID
	Token string
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orm, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	db.ORM = orm
	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			sqlDB.Close()
		}
		db.ORM = nil
	})

	router := gin.New()
	PublicApi(router, Options{ServiceName: "test", AdminToken: testAdminToken})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func signUp(t *testing.T, router http.Handler) testUser {
	t.Helper()
	email := fmt.Sprintf("%s-%s@example.com", gofakeit.Username(), gofakeit.DigitN(6))
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "secret-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, w)
	return testUser{ID: resp.User.ID, Token: resp.Token}
}

func createPost(t *testing.T, router http.Handler, author testUser) models.FeedPost {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/posts/create", author.Token, gin.H{
		"caption": gofakeit.Word() + " " + gofakeit.Word(),
		"media":   []gin.H{{"url": gofakeit.URL(), "type": "image"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.FeedPost](t, w)
}

func TestAuthFlow(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/"+user.ID.String(), user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[models.User](t, w).ID)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/feed", user.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "ink@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "ink@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "ink@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHeaderIgnoredUnlessTrusted(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set("X-User-ID", user.ID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	trusted := gin.New()
	PublicApi(trusted, Options{ServiceName: "test", TrustUserHeader: true})
	w = httptest.NewRecorder()
	trusted.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestFeedPagination(t *testing.T) {
	router := setupRouter(t)
	viewer := signUp(t, router)
	artist := signUp(t, router)
	stranger := signUp(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/follows/"+artist.ID.String(), viewer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, router, http.MethodPost, "/api/v1/follows/"+artist.ID.String(), viewer.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	created := map[uuid.UUID]bool{}
	for range 5 {
		created[createPost(t, router, artist).ID] = true
	}
	createPost(t, router, stranger)

	var seen []models.FeedPost
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "pagination does not terminate")
		path := "/api/v1/feed?limit=2"
		if cursor != "" {
			path += "&cursor=" + cursor
		}
		w := doJSON(t, router, http.MethodGet, path, viewer.Token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := decode[models.FeedPage](t, w)
		assert.LessOrEqual(t, len(page.Items), 2)
		seen = append(seen, page.Items...)
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	require.Len(t, seen, 5)
	for i, p := range seen {
		assert.True(t, created[p.ID], "unexpected post %s in feed", p.ID)
		assert.Equal(t, artist.ID, p.Author.ID)
		if i > 0 {
			prev := seen[i-1]
			assert.False(t, p.CreatedAt.After(prev.CreatedAt), "feed is not newest first")
			assert.NotEqual(t, prev.ID, p.ID)
		}
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/follows", viewer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	following := decode[struct {
		Following []models.Author `json:"following"`
	}](t, w)
	require.Len(t, following.Following, 1)
	assert.Equal(t, artist.ID, following.Following[0].ID)
}

func TestFeedBadRequests(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/feed?cursor=not-a-cursor", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/feed?limit=abc", user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/create", user.Token, gin.H{"caption": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/follows/"+user.ID.String(), user.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLike(t *testing.T) {
	router := setupRouter(t)
	author := signUp(t, router)
	fan := signUp(t, router)
	post := createPost(t, router, author)

	path := "/api/v1/posts/" + post.ID.String() + "/like"
	w := doJSON(t, router, http.MethodPost, path, fan.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.LikeResult{IsLiked: true, LikesCount: 1}, decode[models.LikeResult](t, w))

	w = doJSON(t, router, http.MethodPost, path, fan.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.LikeResult{IsLiked: false, LikesCount: 0}, decode[models.LikeResult](t, w))

	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/"+uuid.NewString()+"/like", fan.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePost(t *testing.T) {
	router := setupRouter(t)
	author := signUp(t, router)
	other := signUp(t, router)
	post := createPost(t, router, author)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/posts/"+post.ID.String(), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/posts/"+post.ID.String(), author.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/posts/"+post.ID.String(), author.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileValidation(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profile/user", user.Token, models.UserRegistrationSteps{})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}](t, w)
	assert.NotEmpty(t, resp.Fields)
}

func TestDrafts(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)
	other := signUp(t, router)
	path := "/api/v1/drafts/wizard.studio-setup"

	w := doJSON(t, router, http.MethodGet, path, user.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	draft := gin.H{"steps": gin.H{"step1": gin.H{"name": "Black Lotus"}}, "current_step_display": 2}
	w = doJSON(t, router, http.MethodPut, path, user.Token, draft)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, path, user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	expected, _ := json.Marshal(draft)
	assert.JSONEq(t, string(expected), w.Body.String())

	// черновики разных пользователей не пересекаются
	w = doJSON(t, router, http.MethodGet, path, other.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, user.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, path, user.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/drafts/unknown", user.Token, draft)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	router := setupRouter(t)
	user := signUp(t, router)
	path := "/api/v1/admin/feed/" + user.ID.String() + "/invalidate"

	w := doJSON(t, router, http.MethodPost, path, user.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// без Redis кеша ленты нет
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/queue/stats", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWebSocketFeedPush(t *testing.T) {
	router := setupRouter(t)
	viewer := signUp(t, router)
	artist := signUp(t, router)
	w := doJSON(t, router, http.MethodPost, "/api/v1/follows/"+artist.ID.String(), viewer.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/feed?token=" + viewer.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var greeting map[string]any
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, "connected", greeting["event"])

	post := createPost(t, router, artist)

	var event struct {
		Event  string          `json:"event"`
		PostID uuid.UUID       `json:"post_id"`
		Post   models.FeedPost `json:"post"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "feed_posted", event.Event)
	assert.Equal(t, post.ID, event.PostID)
	assert.Equal(t, artist.ID, event.Post.Author.ID)
}
