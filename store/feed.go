// Package store - клиентские сторы: лента с оптимистичными лайками и черновики мастеров регистрации.
package store

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"tattoola/models"
)

const DefaultPageSize = 20

type FeedPageRequest struct {
	ViewerID uuid.UUID
	Limit    int
	Cursor   *string
}

// FeedAPI - удаленный источник данных ленты
type FeedAPI interface {
	FetchFeedPage(ctx context.Context, req FeedPageRequest) (models.FeedPage, error)
	TogglePostLike(ctx context.Context, postID, viewerID uuid.UUID) (models.LikeResult, error)
}

type loadKind int

const (
	loadNone loadKind = iota
	loadInitial
	loadMore
	loadRefresh
)

// FeedStore - видимое окно ленты. Загрузки (первая, следующая страница, обновление)
// взаимно исключают друг друга: пока одна идет, остальные вызовы ничего не делают.
// Ошибки наружу не возвращаются, признаком служат флаги загрузки и состояние списка.
type FeedStore struct {
	api      FeedAPI
	pageSize int

	mu       sync.Mutex
	inflight loadKind
	cursor   *string
	hasMore  bool
	subs     map[int]func()
	nextSub  int

	posts *OptimisticList[models.FeedPost]
}

func NewFeedStore(api FeedAPI, pageSize int) *FeedStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &FeedStore{
		api:      api,
		pageSize: pageSize,
		subs:     make(map[int]func()),
	}
	s.posts = NewOptimisticList(func(p models.FeedPost) string { return p.ID.String() }, s.notify)
	return s
}

// Subscribe регистрирует обработчик изменений и возвращает функцию отписки
func (s *FeedStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *FeedStore) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *FeedStore) Posts() []models.FeedPost {
	return s.posts.Items()
}

func (s *FeedStore) Post(postID uuid.UUID) (models.FeedPost, bool) {
	return s.posts.Find(postID.String())
}

func (s *FeedStore) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *FeedStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight == loadInitial || s.inflight == loadMore
}

func (s *FeedStore) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight == loadRefresh
}

func (s *FeedStore) Cursor() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// beginLoad занимает единственный слот загрузки. Возвращает курсор для запроса
func (s *FeedStore) beginLoad(kind loadKind) (*string, bool) {
	s.mu.Lock()
	if s.inflight != loadNone {
		s.mu.Unlock()
		return nil, false
	}
	if kind == loadMore && (!s.hasMore || s.cursor == nil) {
		s.mu.Unlock()
		return nil, false
	}
	s.inflight = kind
	var cursor *string
	if kind == loadMore {
		cursor = s.cursor
	}
	s.mu.Unlock()
	s.notify()
	return cursor, true
}

func (s *FeedStore) endLoad() {
	s.mu.Lock()
	s.inflight = loadNone
	s.mu.Unlock()
	s.notify()
}

func (s *FeedStore) LoadInitial(ctx context.Context, viewerID uuid.UUID) {
	s.load(ctx, viewerID, loadInitial)
}

func (s *FeedStore) Refresh(ctx context.Context, viewerID uuid.UUID) {
	s.load(ctx, viewerID, loadRefresh)
}

// LoadMore догружает следующую страницу по сохраненному курсору и дописывает в конец
func (s *FeedStore) LoadMore(ctx context.Context, viewerID uuid.UUID) {
	s.load(ctx, viewerID, loadMore)
}

func (s *FeedStore) load(ctx context.Context, viewerID uuid.UUID, kind loadKind) {
	cursor, ok := s.beginLoad(kind)
	if !ok {
		return
	}
	defer s.endLoad()

	page, err := s.api.FetchFeedPage(ctx, FeedPageRequest{
		ViewerID: viewerID,
		Limit:    s.pageSize,
		Cursor:   cursor,
	})
	if err != nil {
		log.Printf("ERROR: feed load failed for viewer=%s: %v", viewerID, err)
		return
	}
	if ctx.Err() != nil {
		// потребитель ушел, результат больше никому не нужен
		return
	}

	if kind == loadMore {
		s.posts.Append(page.Items)
	} else {
		s.posts.Replace(page.Items)
	}

	s.mu.Lock()
	s.cursor = page.NextCursor
	s.hasMore = page.NextCursor != nil
	s.mu.Unlock()
}

// ToggleLikeOptimistic сразу переключает лайк в списке и отправляет запрос на сервер
func (s *FeedStore) ToggleLikeOptimistic(ctx context.Context, postID, viewerID uuid.UUID) {
	_, err := OptimisticMutate(ctx, s.posts, postID.String(),
		flipLike,
		func(ctx context.Context) (models.LikeResult, error) {
			return s.api.TogglePostLike(ctx, postID, viewerID)
		},
		applyLikeResult,
		revertLike,
	)
	if err != nil && err != ErrItemNotFound {
		log.Printf("ERROR: like toggle failed for post=%s viewer=%s, rolled back: %v", postID, viewerID, err)
	}
}

func flipLike(p models.FeedPost) models.FeedPost {
	p.IsLiked = !p.IsLiked
	if p.IsLiked {
		p.LikesCount++
	} else {
		p.LikesCount = max(0, p.LikesCount-1)
	}
	return p
}

func applyLikeResult(p models.FeedPost, res models.LikeResult) models.FeedPost {
	p.IsLiked = res.IsLiked
	p.LikesCount = max(0, res.LikesCount)
	return p
}

// revertLike возвращает только поля лайка, остальное могло обновиться за время запроса
func revertLike(current, base models.FeedPost) models.FeedPost {
	current.IsLiked = base.IsLiked
	current.LikesCount = base.LikesCount
	return current
}

// UpsertPost добавляет новый пост в начало ленты или заменяет существующий на месте
func (s *FeedStore) UpsertPost(post models.FeedPost) {
	s.posts.Upsert(post)
}

func (s *FeedStore) RemovePost(postID uuid.UUID) bool {
	return s.posts.Remove(postID.String())
}

// Reset очищает ленту, например при выходе пользователя
func (s *FeedStore) Reset() {
	s.posts.Replace(nil)
	s.mu.Lock()
	s.cursor = nil
	s.hasMore = false
	s.mu.Unlock()
	s.notify()
}
