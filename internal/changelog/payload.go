package changelog

import "time"

// Comic is the payload of comic entries. IDs are domain keys shared by all
// replicas of the same account.
type Comic struct {
	ID       string `json:"id" validate:"required"`
	SiteID   string `json:"siteId" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Cover    string `json:"cover,omitempty"`
	Repo     string `json:"repo" validate:"required"`
	Synopsis string `json:"synopsis" validate:"required"`
	Type     string `json:"type" validate:"required"`

	Author    string   `json:"author,omitempty"`
	Artist    string   `json:"artist,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Status    string   `json:"status,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Year      int      `json:"year,omitempty"`
}

// Chapter is the payload of chapter entries. A chapter belongs to a comic by
// domain id.
type Chapter struct {
	ID      string  `json:"id" validate:"required"`
	ComicID string  `json:"comicId" validate:"required"`
	SiteID  string  `json:"siteId" validate:"required"`
	Repo    string  `json:"repo" validate:"required"`
	Number  float64 `json:"number" validate:"min=0"`

	Name     string     `json:"name,omitempty"`
	Pages    []string   `json:"pages,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Language string     `json:"language,omitempty"`
	Offline  bool       `json:"offline,omitempty"`
}

// ReadProgress is the payload of readProgress entries, scoped to a single
// user and keyed by (ChapterID, UserID).
type ReadProgress struct {
	ID         string    `json:"id" validate:"required"`
	ChapterID  string    `json:"chapterId" validate:"required"`
	ComicID    string    `json:"comicId" validate:"required"`
	UserID     string    `json:"userId" validate:"required"`
	Page       int       `json:"page" validate:"min=0"`
	TotalPages int       `json:"totalPages" validate:"min=0"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
