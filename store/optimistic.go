package store

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrItemNotFound = errors.New("item not found")

// pendingKey - незавершенные оптимистичные изменения одного элемента
type pendingKey[T any] struct {
	gen      uint64 // номер последнего выданного изменения
	inflight int
	base     T    // последнее состояние, подтвержденное сервером
	failed   bool // последнее по номеру изменение завершилось ошибкой
}

// OptimisticList - упорядоченный список с оптимистичными изменениями.
// Порядок элементов никогда не пересортировывается.
type OptimisticList[T any] struct {
	mu      sync.Mutex
	items   []T
	key     func(T) string
	version uint64 // растет при любом изменении списка
	epoch   uint64 // растет при полной замене списка
	seq     uint64
	pending map[string]*pendingKey[T]
	notify  func()
}

func NewOptimisticList[T any](key func(T) string, notify func()) *OptimisticList[T] {
	if notify == nil {
		notify = func() {}
	}
	return &OptimisticList[T]{
		key:     key,
		pending: make(map[string]*pendingKey[T]),
		notify:  notify,
	}
}

// Items возвращает копию списка
func (l *OptimisticList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *OptimisticList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *OptimisticList[T]) Find(key string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(key); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *OptimisticList[T]) indexLocked(key string) int {
	for i, item := range l.items {
		if l.key(item) == key {
			return i
		}
	}
	return -1
}

// Replace заменяет весь список (первая загрузка, обновление)
func (l *OptimisticList[T]) Replace(items []T) {
	l.mu.Lock()
	l.items = slices.Clone(items)
	l.version++
	l.epoch++
	l.mu.Unlock()
	l.notify()
}

// Append добавляет элементы в конец, ничего не заменяя
func (l *OptimisticList[T]) Append(items []T) {
	l.mu.Lock()
	l.items = append(slices.Clone(l.items), items...)
	l.version++
	l.mu.Unlock()
	l.notify()
}

// Upsert вставляет новый элемент в начало или заменяет существующий на месте
func (l *OptimisticList[T]) Upsert(item T) {
	l.mu.Lock()
	next := slices.Clone(l.items)
	if i := l.indexLocked(l.key(item)); i >= 0 {
		next[i] = item
	} else {
		next = slices.Insert(next, 0, item)
	}
	l.items = next
	l.version++
	l.mu.Unlock()
	l.notify()
}

func (l *OptimisticList[T]) Remove(key string) bool {
	l.mu.Lock()
	i := l.indexLocked(key)
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	l.items = slices.Delete(slices.Clone(l.items), i, i+1)
	l.version++
	l.mu.Unlock()
	l.notify()
	return true
}

// OptimisticMutate применяет optimistic к элементу key сразу, затем вызывает remote.
// При успехе элемент сверяется с ответом сервера через reconcile (сервер всегда прав).
// При ошибке список откатывается к снимку до изменения. Если за время запроса
// список менялся кем-то еще, revert переносит на текущий элемент только поля,
// затронутые optimistic, из последнего подтвержденного состояния.
// Результат применяет только последнее по времени изменение этого элемента,
// более старые завершения лишь обновляют подтвержденное состояние.
func OptimisticMutate[T, R any](
	ctx context.Context,
	l *OptimisticList[T],
	key string,
	optimistic func(T) T,
	remote func(context.Context) (R, error),
	reconcile func(T, R) T,
	revert func(current, base T) T,
) (R, error) {
	var zero R

	l.mu.Lock()
	idx := l.indexLocked(key)
	if idx < 0 {
		l.mu.Unlock()
		return zero, ErrItemNotFound
	}
	snapshot := l.items
	prev := l.items[idx]

	p, ok := l.pending[key]
	if !ok {
		p = &pendingKey[T]{base: prev}
		l.pending[key] = p
	}
	solo := p.inflight == 0
	l.seq++
	myGen := l.seq
	p.gen = myGen
	p.inflight++

	next := slices.Clone(l.items)
	next[idx] = optimistic(prev)
	l.items = next
	l.version++
	myVersion := l.version
	myEpoch := l.epoch
	l.mu.Unlock()
	l.notify()

	res, err := remote(ctx)

	l.mu.Lock()
	p.inflight--
	latest := p.gen == myGen
	if err == nil {
		p.base = reconcile(p.base, res)
	}
	changed := false

	switch {
	case latest && err == nil:
		p.failed = false
		if i := l.indexLocked(key); i >= 0 {
			next := slices.Clone(l.items)
			next[i] = reconcile(next[i], res)
			l.items = next
			changed = true
		}
	case latest:
		p.failed = true
		if solo && l.version == myVersion {
			l.items = snapshot
			changed = true
		} else if l.epoch == myEpoch {
			changed = l.revertLocked(key, p.base, revert)
		}
	case p.failed && p.inflight == 0 && l.epoch == myEpoch:
		// последнее изменение уже откатилось, а старое подтвердилось позже
		changed = l.revertLocked(key, p.base, revert)
	}

	if p.inflight == 0 {
		delete(l.pending, key)
	}
	if changed {
		l.version++
	}
	l.mu.Unlock()

	if changed {
		l.notify()
	}
	return res, err
}

func (l *OptimisticList[T]) revertLocked(key string, base T, revert func(current, base T) T) bool {
	i := l.indexLocked(key)
	if i < 0 {
		return false
	}
	next := slices.Clone(l.items)
	next[i] = revert(next[i], base)
	l.items = next
	return true
}

// Pending возвращает количество элементов с незавершенными изменениями
func (l *OptimisticList[T]) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
