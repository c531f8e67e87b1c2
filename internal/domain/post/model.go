package post

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxContentLength = 5000
)

// Welcome post constants, seeded on first run.
const (
	WelcomeID         = "post-0"
	WelcomeAuthorID   = "admin"
	WelcomeAuthorName = "Sensei Ben"
	WelcomeRole       = "Administrador"
	WelcomeContent    = "Bem-vindo ao centro de comando. Como Administrador, você deve agora admitir seu Time Técnico e matricular seus Guerreiros. OSS!"
)

// Domain errors
var (
	ErrEmptyAuthor     = errors.New("post author is required")
	ErrEmptyContent    = errors.New("post content cannot be empty")
	ErrContentTooLong  = errors.New("post content cannot exceed 5000 characters")
	ErrMissingPostedAt = errors.New("post timestamp must be set")
)

// Post is an entry in the community feed. Author fields are copied at post
// time and are not kept in sync with the author's profile.
// Content supports Markdown formatting.
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Image      string    `json:"image,omitempty"`
}

// Validate checks if the Post has valid data.
// PRE: Post struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Post) Validate() error {
	if strings.TrimSpace(p.AuthorID) == "" {
		return ErrEmptyAuthor
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if len(p.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if p.Timestamp.IsZero() {
		return ErrMissingPostedAt
	}
	return nil
}

// Welcome returns the post that greets the administrator on first run.
func Welcome(now time.Time) Post {
	return Post{
		ID:         WelcomeID,
		AuthorID:   WelcomeAuthorID,
		AuthorName: WelcomeAuthorName,
		Role:       WelcomeRole,
		Content:    WelcomeContent,
		Timestamp:  now,
	}
}
