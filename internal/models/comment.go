package models

import (
	"time"
)

// Comment references its post by id only. The reference is not enforced with
// a foreign key: comments may outlive their post (see schema.go).
type Comment struct {
	ID        int          `json:"id" db:"id"`
	Content   string       `json:"content" db:"content"`
	PostID    int          `json:"postId" db:"post_id"`
	CreatedBy int          `json:"createdBy" db:"created_by"`
	Creator   *UserSummary `json:"creator,omitempty" db:"-"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
