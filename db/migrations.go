package db

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateFeedIndexes создает индексы под keyset-пагинацию ленты (created_at, id)
func CreateFeedIndexes(db *gorm.DB) error {
	statements := map[string]string{
		"idx_posts_author_created_id": `
			CREATE INDEX IF NOT EXISTS idx_posts_author_created_id
			ON posts (author_id, created_at DESC, id DESC);
		`,
		"idx_posts_created_id": `
			CREATE INDEX IF NOT EXISTS idx_posts_created_id
			ON posts (created_at DESC, id DESC);
		`,
		"idx_post_media_post_order": `
			CREATE INDEX IF NOT EXISTS idx_post_media_post_order
			ON post_media (post_id, sort_order);
		`,
	}
	for name, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	return nil
}
