package server

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// CommentsCount is filled only by queries selecting comments_count.
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`
}

func (Article) TableName() string { return "articles" }

func (a *Article) BeforeSave(*gorm.DB) error {
	a.CreatedAt, a.UpdatedAt = normalizeTime(a.CreatedAt), normalizeTime(a.UpdatedAt)
	return nil
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index" json:"article_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeSave(*gorm.DB) error {
	c.CreatedAt, c.UpdatedAt = normalizeTime(c.CreatedAt), normalizeTime(c.UpdatedAt)
	return nil
}

// normalizeTime returns t in UTC truncated to whole seconds. Text comparisons
// of sqlite timestamps only order correctly within one zone.
func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	return t.UTC().Truncate(time.Second)
}

// Models lists the tables the server migrates.
func Models() []any {
	return []any{&Article{}, &Comment{}}
}
