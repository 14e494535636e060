package models

import "time"

// Admin accounts are pre-provisioned; they carry no CreatedAt because the
// admin list is written out-of-band, not through signup.
type Admin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
}

type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Post keeps reactions as email lists. An email appears in at most one of
// Likes/Dislikes at any time.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       []string  `json:"likes"`
	Dislikes    []string  `json:"dislikes"`
}

func (p Post) LikedBy(email string) bool    { return contains(p.Likes, email) }
func (p Post) DislikedBy(email string) bool { return contains(p.Dislikes, email) }

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
