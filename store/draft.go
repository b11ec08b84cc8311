package store

import (
	"encoding/json"
	"fmt"

	"tattoola/validation"
)

// Draft - незаконченные данные формы. Merge сливает патч поверх данных,
// Commit прогоняет внешнюю валидацию. Сохранение делает владелец черновика.
type Draft[T any] struct {
	Data T
}

// Merge переносит из патча только заданные поля. Патч - запись с теми же
// JSON-ключами, что и T, и полями-указателями с omitempty: nil-поле сохраняет
// прежнее значение, указатель на пустое значение очищает его
func (d *Draft[T]) Merge(patch any) error {
	merged, err := MergePatch(d.Data, patch)
	if err != nil {
		return err
	}
	d.Data = merged
	return nil
}

// Edit изменяет данные напрямую, без патча
func (d *Draft[T]) Edit(fn func(*T)) {
	fn(&d.Data)
}

func (d *Draft[T]) Commit(validate func(T) []validation.FieldError) (T, []validation.FieldError) {
	if validate == nil {
		return d.Data, nil
	}
	if errs := validate(d.Data); len(errs) > 0 {
		return d.Data, errs
	}
	return d.Data, nil
}

// MergePatch - поверхностное слияние двух записей по ключам верхнего уровня JSON.
// Ключ, присутствующий в JSON патча, перезаписывает значение, даже пустое.
// Результат всегда новое значение, current не изменяется.
func MergePatch[T, P any](current T, patch P) (T, error) {
	var out T
	base, err := toFields(current)
	if err != nil {
		return out, fmt.Errorf("failed to encode current: %w", err)
	}
	overlay, err := toFields(patch)
	if err != nil {
		return out, fmt.Errorf("failed to encode patch: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	data, err := json.Marshal(base)
	if err != nil {
		return out, fmt.Errorf("failed to encode merged: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode merged: %w", err)
	}
	return out, nil
}

func toFields(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
