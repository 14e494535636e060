package posts

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"blog/internal/models"
	"blog/internal/store"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("not allowed")
)

// PlaceholderTitle is used when a post is submitted with a blank title.
const PlaceholderTitle = "(untitled)"

// List returns all posts, newest first.
func List(st *store.Store) ([]models.Post, error) {
	all, err := st.Posts()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Create appends a new post with a fresh ID and empty reaction lists.
func Create(st *store.Store, title, content, authorEmail, authorName string) (models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		title = PlaceholderTitle
	}

	p := models.Post{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     content,
		AuthorEmail: authorEmail,
		AuthorName:  authorName,
		CreatedAt:   time.Now().UTC(),
		Likes:       []string{},
		Dislikes:    []string{},
	}

	all, err := st.Posts()
	if err != nil {
		return models.Post{}, err
	}
	all = append(all, p)
	if err := st.PutPosts(all); err != nil {
		return models.Post{}, err
	}

	log.Info().Str("id", p.ID).Str("author", authorEmail).Msg("post created")
	return p, nil
}

// Delete removes a post. Only the author or an admin may delete it.
func Delete(st *store.Store, id, requesterEmail string, isAdmin bool) error {
	all, err := st.Posts()
	if err != nil {
		return err
	}

	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if !isAdmin && all[idx].AuthorEmail != requesterEmail {
		return ErrForbidden
	}

	all = append(all[:idx], all[idx+1:]...)
	if err := st.PutPosts(all); err != nil {
		return err
	}

	log.Info().Str("id", id).Str("requester", requesterEmail).Msg("post deleted")
	return nil
}

// Like toggles the requester's like on a post.
func Like(st *store.Store, id, email string) error {
	return react(st, id, email, true)
}

// Dislike toggles the requester's dislike on a post.
func Dislike(st *store.Store, id, email string) error {
	return react(st, id, email, false)
}

// react removes the email from the opposite list unconditionally, then flips
// its membership in the target list. That keeps the two lists mutually
// exclusive and makes two identical calls cancel out.
func react(st *store.Store, id, email string, like bool) error {
	all, err := st.Posts()
	if err != nil {
		return err
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		if like {
			all[i].Dislikes = remove(all[i].Dislikes, email)
			all[i].Likes = toggle(all[i].Likes, email)
		} else {
			all[i].Likes = remove(all[i].Likes, email)
			all[i].Dislikes = toggle(all[i].Dislikes, email)
		}
		return st.PutPosts(all)
	}
	return ErrNotFound
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, e := range list {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

func toggle(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return remove(list, v)
		}
	}
	return append(list, v)
}
