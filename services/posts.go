package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"tattoola/config"
	"tattoola/db"
	"tattoola/models"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	DEFAULT_PAGE_SIZE   = 20
	MAX_PAGE_SIZE       = 100
	FAN_OUT_CONCURRENCY = 16 // сколько подписчиков обрабатывается параллельно
)

type CreatePostInput struct {
	Caption string
	Media   []models.Media
}

// feedRef - ссылка на пост в ленте, достаточная для построения курсора
type feedRef struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

func pageSizes() (int, int) {
	if config.AppConfig == nil {
		return DEFAULT_PAGE_SIZE, MAX_PAGE_SIZE
	}
	return config.AppConfig.Feed.PageSize, config.AppConfig.Feed.MaxPageSize
}

func clampLimit(limit int) int {
	def, maxSize := pageSizes()
	if limit <= 0 {
		return def
	}
	return min(limit, maxSize)
}

// CreatePost сохраняет пост и рассылает его подписчикам автора
func (ps *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, in CreatePostInput) (*models.FeedPost, error) {
	if strings.TrimSpace(in.Caption) == "" && len(in.Media) == 0 {
		return nil, ErrEmptyPost
	}

	author, err := NewUserService().GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	// миллисекунды: столько же точности хранит кеш ленты в score
	now := time.Now().UTC().Truncate(time.Millisecond)
	post := &models.Post{
		AuthorID:  authorID,
		Caption:   in.Caption,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, m := range in.Media {
		if m.Type == "" {
			m.Type = models.MediaImage
		}
		post.Media = append(post.Media, models.PostMedia{URL: m.URL, Type: m.Type, Order: i})
	}

	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		log.Printf("ERROR: Failed to create post in DB: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	log.Printf("DEBUG: Post created id=%s author=%s", post.ID, authorID)

	feedPost := toFeedPost(*post, author.Author(), false)

	if QueueServiceInstance != nil && RedisClient != nil {
		err := QueueServiceInstance.EnqueueFeedUpdate(ctx, FeedUpdateTask{
			AuthorID: authorID,
			PostID:   post.ID,
			Action:   ActionCreate,
		})
		if err == nil {
			return &feedPost, nil
		}
		log.Printf("ERROR: failed to enqueue fan-out for post=%s, delivering inline: %v", post.ID, err)
	}

	ps.fanOutPost(ctx, feedPost)
	return &feedPost, nil
}

// GetFeed возвращает страницу ленты: посты подписок и собственные, новые сверху.
// Пагинация по (created_at, id), следующая страница начинается строго после курсора
func (ps *PostService) GetFeed(ctx context.Context, viewerID uuid.UUID, cursor *string, limit int) (*models.FeedPage, error) {
	limit = clampLimit(limit)

	var after *FeedCursor
	if cursor != nil && *cursor != "" {
		c, err := DecodeCursor(*cursor)
		if err != nil {
			return nil, err
		}
		after = &c
	}

	refs, ok := ps.getFeedFromCache(ctx, viewerID, after, limit+1)
	if ok {
		feedPagesTotal.WithLabelValues("cache").Inc()
	} else {
		var err error
		refs, err = ps.buildFeedFromDB(ctx, viewerID, after, limit+1)
		if err != nil {
			return nil, err
		}
		feedPagesTotal.WithLabelValues("db").Inc()
		if after == nil && RedisClient != nil {
			go func() {
				if err := ps.RebuildUserFeedFromDB(context.Background(), viewerID); err != nil {
					log.Printf("ERROR: failed to warm feed cache for user=%s: %v", viewerID, err)
				}
			}()
		}
	}

	hasMore := len(refs) > limit
	if hasMore {
		refs = refs[:limit]
	}

	posts, err := ps.loadFeedPosts(ctx, viewerID, refs)
	if err != nil {
		return nil, err
	}

	page := &models.FeedPage{Items: posts}
	if hasMore {
		last := refs[len(refs)-1]
		next := FeedCursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		page.NextCursor = &next
	}
	return page, nil
}

// buildFeedFromDB выбирает следующие n постов ленты после курсора
func (ps *PostService) buildFeedFromDB(ctx context.Context, viewerID uuid.UUID, after *FeedCursor, n int) ([]feedRef, error) {
	following := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", viewerID)

	query := db.GetReadOnlyDB(ctx).Model(&models.Post{}).
		Select("id, created_at").
		Where("(author_id = ? OR author_id IN (?))", viewerID, following)

	if after != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			after.CreatedAt, after.CreatedAt, after.ID)
	}

	var refs []feedRef
	err := query.Order("created_at DESC, id DESC").Limit(n).Scan(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}
	for i := range refs {
		refs[i].CreatedAt = refs[i].CreatedAt.UTC()
	}
	return refs, nil
}

// loadFeedPosts собирает посты с авторами, медиа и лайками зрителя в порядке refs
func (ps *PostService) loadFeedPosts(ctx context.Context, viewerID uuid.UUID, refs []feedRef) ([]models.FeedPost, error) {
	result := make([]models.FeedPost, 0, len(refs))
	if len(refs) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}

	var posts []models.Post
	err := db.GetReadOnlyDB(ctx).
		Preload("Media", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order") }).
		Where("id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	authorIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		if !slices.Contains(authorIDs, p.AuthorID) {
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}
	var users []models.User
	if err := db.GetReadOnlyDB(ctx).Where("id IN ?", authorIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	authors := make(map[uuid.UUID]models.Author, len(users))
	for _, u := range users {
		authors[u.ID] = u.Author()
	}

	var likedIDs []uuid.UUID
	err = db.GetReadOnlyDB(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}

	byID := make(map[uuid.UUID]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	counts := cachedLikeCounts(ctx, posts)

	for _, r := range refs {
		p, ok := byID[r.ID]
		if !ok {
			// пост удален между выборкой ссылок и загрузкой
			continue
		}
		if c, ok := counts[p.ID]; ok {
			p.LikesCount = c
		}
		result = append(result, toFeedPost(p, authors[p.AuthorID], slices.Contains(likedIDs, p.ID)))
	}
	return result, nil
}

func toFeedPost(p models.Post, author models.Author, liked bool) models.FeedPost {
	media := make([]models.Media, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, models.Media{URL: m.URL, Type: m.Type, Order: m.Order})
	}
	slices.SortFunc(media, func(a, b models.Media) int { return a.Order - b.Order })
	return models.FeedPost{
		ID:         p.ID,
		Author:     author,
		Media:      media,
		Caption:    p.Caption,
		LikesCount: max(0, p.LikesCount),
		IsLiked:    liked,
		CreatedAt:  p.CreatedAt.UTC(),
	}
}

// GetPost возвращает один пост так, как его видит viewerID
func (ps *PostService) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*models.FeedPost, error) {
	posts, err := ps.loadFeedPosts(ctx, viewerID, []feedRef{{ID: postID}})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return &posts[0], nil
}

// fanOutPost добавляет пост в закешированные ленты подписчиков и автора
// и отправляет им событие feed_posted
func (ps *PostService) fanOutPost(ctx context.Context, post models.FeedPost) {
	followers, err := NewFollowService().FollowerIDs(ctx, post.Author.ID)
	if err != nil {
		log.Printf("ERROR: Failed to get followers for userID=%s: %v", post.Author.ID, err)
		return
	}
	recipients := append(followers, post.Author.ID)
	log.Printf("DEBUG: fan-out post=%s to %d recipients", post.ID, len(recipients))

	p := pool.New().WithMaxGoroutines(FAN_OUT_CONCURRENCY)
	for _, userID := range recipients {
		p.Go(func() {
			ps.addPostToUserFeed(ctx, userID, post)
			deliverFeedEvent(ctx, FeedEvent{
				Event:  EventFeedPosted,
				UserID: userID,
				PostID: post.ID,
				Post:   &post,
			})
		})
	}
	p.Wait()
}

// removePostFromFeeds убирает пост из лент подписчиков и автора
func (ps *PostService) removePostFromFeeds(ctx context.Context, authorID, postID uuid.UUID) {
	followers, err := NewFollowService().FollowerIDs(ctx, authorID)
	if err != nil {
		log.Printf("ERROR: Failed to get followers for userID=%s: %v", authorID, err)
		return
	}
	recipients := append(followers, authorID)

	p := pool.New().WithMaxGoroutines(FAN_OUT_CONCURRENCY)
	for _, userID := range recipients {
		p.Go(func() {
			ps.removePostFromUserFeed(ctx, userID, postID)
			deliverFeedEvent(ctx, FeedEvent{
				Event:  EventFeedDeleted,
				UserID: userID,
				PostID: postID,
			})
		})
	}
	p.Wait()
}

// deliverFeedEvent публикует событие в RabbitMQ, а если он недоступен - шлет напрямую в WebSocket
func deliverFeedEvent(ctx context.Context, event FeedEvent) {
	if err := PublishFeedEvent(ctx, event); err == nil {
		feedFanOutTotal.WithLabelValues(event.Event, "rabbitmq").Inc()
		return
	}
	if err := GlobalWSConnManager.SendJSON(event.UserID, event); err != nil {
		log.Printf("ERROR: Failed to push %s to userID=%s: %v", event.Event, event.UserID, err)
		return
	}
	feedFanOutTotal.WithLabelValues(event.Event, "direct").Inc()
}

// DeletePost удаляет пост автора вместе с медиа и лайками
func (ps *PostService) DeletePost(ctx context.Context, authorID, postID uuid.UUID) error {
	var post models.Post
	err := db.GetWriteDB(ctx).Where("id = ? AND author_id = ?", postID, authorID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find post: %w", err)
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if LikeCounterInstance != nil {
		if err := LikeCounterInstance.Remove(ctx, postID); err != nil {
			log.Printf("ERROR: failed to drop like counter for post=%s: %v", postID, err)
		}
	}

	if QueueServiceInstance != nil && RedisClient != nil {
		err := QueueServiceInstance.EnqueueFeedUpdate(ctx, FeedUpdateTask{
			AuthorID: authorID,
			PostID:   postID,
			Action:   ActionDelete,
		})
		if err == nil {
			return nil
		}
		log.Printf("ERROR: failed to enqueue delete for post=%s, removing inline: %v", postID, err)
	}
	ps.removePostFromFeeds(ctx, authorID, postID)
	return nil
}
