package model

import "github.com/google/uuid"

// ForumPostStatus represents a forum post's moderation state.
type ForumPostStatus string

const (
	ForumVisible ForumPostStatus = "visible"
	ForumFlagged ForumPostStatus = "flagged"
	ForumRemoved ForumPostStatus = "removed"
)

// ForumPost represents a community forum post subject to moderation.
type ForumPost struct {
	BaseEntity
	AuthorID  uuid.UUID       `json:"author_id" db:"author_id"`
	Title     string          `json:"title" db:"title"`
	Body      string          `json:"body" db:"body"`
	Status    ForumPostStatus `json:"status" db:"status"`
	FlagCount int             `json:"flag_count" db:"flag_count"`

	AuthorName string `json:"author_name,omitempty" db:"-"`
}
