package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedCursor - позиция в ленте: последний показанный пост по (created_at, id).
// Клиенту отдается непрозрачной строкой
type FeedCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (c FeedCursor) Encode() string {
	raw := fmt.Sprintf("%d:%s", c.CreatedAt.UnixMicro(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (FeedCursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	ts, id, ok := strings.Cut(string(data), ":")
	if !ok {
		return FeedCursor{}, ErrInvalidCursor
	}
	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	postID, err := uuid.Parse(id)
	if err != nil {
		return FeedCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return FeedCursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: postID}, nil
}
