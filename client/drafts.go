package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tattoola/kvstore"
)

// RemoteDrafts хранит черновики мастеров на сервере, чтобы продолжить с другого устройства
type RemoteDrafts struct {
	c *Client
}

var _ kvstore.Store = (*RemoteDrafts)(nil)

func (c *Client) Drafts() *RemoteDrafts {
	return &RemoteDrafts{c: c}
}

func draftPath(key string) string {
	return "/api/v1/drafts/" + url.PathEscape(key)
}

func (d *RemoteDrafts) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.c.get(ctx, draftPath(key), &rawBody{&value})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (d *RemoteDrafts) Set(ctx context.Context, key, value string) error {
	req, err := d.c.newRequest(ctx, http.MethodPut, draftPath(key), nil)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(strings.NewReader(value))
	req.ContentLength = int64(len(value))
	req.Header.Set("Content-Type", "application/json")
	return d.c.do(req, nil)
}

func (d *RemoteDrafts) Remove(ctx context.Context, key string) error {
	return d.c.send(ctx, http.MethodDelete, draftPath(key), nil, nil)
}

// rawBody сохраняет тело ответа как есть, без разбора JSON
type rawBody struct {
	dst *string
}

func (r *rawBody) UnmarshalJSON(data []byte) error {
	*r.dst = string(data)
	return nil
}
