// Package kvstore - постоянное key-value хранилище для черновиков мастеров регистрации.
package kvstore

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Store - асинхронное key-value хранилище. Get возвращает ok=false если ключа нет
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\\x00") || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
