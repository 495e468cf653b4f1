package models

import (
	"time"
)

type Post struct {
	ID         int          `json:"id" db:"id"`
	Title      string       `json:"title" db:"title"`
	Content    string       `json:"content" db:"content"`
	CreatedBy  int          `json:"createdBy" db:"created_by"`
	Creator    *UserSummary `json:"creator,omitempty" db:"-"`
	LikesCount int          `json:"likesCount" db:"likes_count"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// PostLike is one row of a post's likers set. UNIQUE(post_id, user_id) in the
// schema keeps each user in the set at most once.
type PostLike struct {
	ID        int       `json:"id" db:"id"`
	PostID    int       `json:"post_id" db:"post_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
