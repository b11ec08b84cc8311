// Package client - HTTP клиент backend API для сторов ленты и мастеров.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"tattoola/models"
	"tattoola/store"
)

const (
	DEFAULT_TIMEOUT     = 10 * time.Second
	FETCH_ATTEMPTS      = 3
	FETCH_RETRY_DELAY   = 200 * time.Millisecond
	maxErrorBodyPreview = 512
)

// APIError - ответ backend с кодом не 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Temporary - ошибки, после которых имеет смысл повторить идемпотентный запрос
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DEFAULT_TIMEOUT},
		attempts:   FETCH_ATTEMPTS,
		retryDelay: FETCH_RETRY_DELAY,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ store.FeedAPI          = (*Client)(nil)
	_ store.RequestSubmitter = (*Client)(nil)
)

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do выполняет запрос и декодирует ответ в out (если out != nil)
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyPreview))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// get повторяет идемпотентный GET на сетевых ошибках и 5xx
func (c *Client) get(ctx context.Context, path string, out any) error {
	return retry.Do(
		func() error {
			err := c.send(ctx, http.MethodGet, path, nil, out)
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Temporary() {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) Register(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := c.send(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login получает токен и запоминает его для следующих запросов
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := c.send(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.setToken(resp.Token)
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.send(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil); err != nil {
		return err
	}
	c.setToken("")
	return nil
}

// FetchFeedPage - страница ленты текущего пользователя. ViewerID определяется токеном
func (c *Client) FetchFeedPage(ctx context.Context, req store.FeedPageRequest) (models.FeedPage, error) {
	q := url.Values{}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Cursor != nil {
		q.Set("cursor", *req.Cursor)
	}
	path := "/api/v1/feed"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page models.FeedPage
	if err := c.get(ctx, path, &page); err != nil {
		return models.FeedPage{}, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return page, nil
}

// TogglePostLike не повторяется: повтор переключил бы лайк обратно
func (c *Client) TogglePostLike(ctx context.Context, postID, viewerID uuid.UUID) (models.LikeResult, error) {
	var res models.LikeResult
	err := c.send(ctx, http.MethodPost, "/api/v1/posts/"+postID.String()+"/like", nil, &res)
	if err != nil {
		return models.LikeResult{}, fmt.Errorf("failed to toggle like: %w", err)
	}
	return res, nil
}

func (c *Client) CreatePost(ctx context.Context, caption string, media []models.Media) (*models.FeedPost, error) {
	var post models.FeedPost
	err := c.send(ctx, http.MethodPost, "/api/v1/posts/create", map[string]any{
		"caption": caption,
		"media":   media,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/posts/"+postID.String(), nil, nil)
}

func (c *Client) Follow(ctx context.Context, userID uuid.UUID) error {
	return c.send(ctx, http.MethodPost, "/api/v1/follows/"+userID.String(), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID uuid.UUID) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/follows/"+userID.String(), nil, nil)
}

func (c *Client) SubmitRequest(ctx context.Context, answers models.PrivateRequestAnswers) error {
	return c.send(ctx, http.MethodPost, "/api/v1/requests", answers, nil)
}

// Функции отправки для Wizard.Submit

func (c *Client) SubmitUserProfile(ctx context.Context, steps models.UserRegistrationSteps) error {
	return c.send(ctx, http.MethodPost, "/api/v1/profile/user", steps, nil)
}

func (c *Client) SubmitArtistProfile(ctx context.Context, steps models.ArtistRegistrationSteps) error {
	return c.send(ctx, http.MethodPost, "/api/v1/profile/artist", steps, nil)
}

func (c *Client) SubmitStudio(ctx context.Context, steps models.StudioSetupSteps) error {
	return c.send(ctx, http.MethodPost, "/api/v1/studios", steps, nil)
}
