package database

import (
	"time"
)

// Term is a taxonomy term with the aggregated modification time of its
// published posts.
type Term struct {
	ID           int64
	Taxonomy     string
	Slug         string
	Name         string
	PostCount    int
	CanonicalURL string
	LastModified time.Time
}

type Post struct {
	ID           int64
	PostType     string
	Title        string
	URL          string
	CanonicalURL string
	PublishedAt  time.Time
	ModifiedAt   time.Time
}

type Image struct {
	Src   string
	Title string
	Alt   string
}

// SocialRecord is a social group or a member profile.
type SocialRecord struct {
	ID           int64
	Slug         string
	Name         string
	CanonicalURL string
	ModifiedAt   time.Time
}

func fromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
