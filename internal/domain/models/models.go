package models

import (
	"time"

	"yamdb/proj/internal/domain/fields"
)

// Taxon is the shape shared by the category and genre registries.
type Taxon struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type (
	Category = Taxon
	Genre    = Taxon
)

type Title struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int32          `json:"year"`
	Description string         `json:"description"`
	Rating      *fields.Rating `json:"rating"`   // Mean review score, computed on every read
	Genres      []Genre        `json:"genre"`    // Ordered by genre name
	Category    *Category      `json:"category"` // Nil once the category is deleted
}

type Review struct {
	ID             int64     `json:"id"`
	TitleID        int64     `json:"-"`
	AuthorID       int64     `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	Score          int32     `json:"score"`
	PubDate        time.Time `json:"pub_date"`
}

type Comment struct {
	ID             int64     `json:"id"`
	ReviewID       int64     `json:"-"`
	AuthorID       int64     `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	PubDate        time.Time `json:"pub_date"`
}

type User struct {
	ID        int64     `json:"-"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser
}

// AdminEntry is one row of the read-only administrative listing.
type AdminEntry struct {
	ID      int64
	Display string
}

// TitleDraft carries the writable fields of a title, with its category and
// genres referenced by slug.
type TitleDraft struct {
	Name         string
	Year         int32
	Description  string
	CategorySlug *string
	GenreSlugs   []string
}
