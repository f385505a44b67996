package sitemap

import (
	"net/url"
	"strings"
	"time"
)

type Image struct {
	Src   string
	Title string
	Alt   string
}

// Publication carries the news block of an entry.
type Publication struct {
	Name         string
	Time         time.Time
	LanguageCode string
}

// Entry is one <url> row of a partial sitemap. Sources build it through the
// With* setters; the renderer only reads it.
type Entry struct {
	location     string
	lastModified time.Time
	title        string
	images       []Image
	publication  *Publication
}

func NewEntry(location string) *Entry {
	return &Entry{location: normalizeLocation(location)}
}

func (e *Entry) WithLastModified(t time.Time) *Entry {
	e.lastModified = t
	return e
}

func (e *Entry) WithTitle(title string) *Entry {
	e.title = title
	return e
}

func (e *Entry) WithImage(image Image) *Entry {
	if image.Src != "" {
		e.images = append(e.images, image)
	}
	return e
}

func (e *Entry) WithImages(images []Image) *Entry {
	for _, image := range images {
		e.WithImage(image)
	}
	return e
}

func (e *Entry) WithPublication(p Publication) *Entry {
	e.publication = &p
	return e
}

func (e *Entry) Location() string {
	return e.location
}

func (e *Entry) LastModified() time.Time {
	return e.lastModified
}

func (e *Entry) Title() string {
	return e.title
}

func (e *Entry) Images() []Image {
	return append([]Image(nil), e.images...)
}

func (e *Entry) Publication() (Publication, bool) {
	if e.publication == nil {
		return Publication{}, false
	}
	return *e.publication, true
}

// IndexEntry is one <sitemap> row of an index document.
type IndexEntry struct {
	Location     string
	LastModified time.Time
}

// normalizeLocation gives bare host URLs a trailing slash so that
// "https://example.com" and "https://example.com/" produce one location.
func normalizeLocation(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return raw
	}
	if u.Path == "" && u.RawQuery == "" && u.Fragment == "" {
		return raw + "/"
	}
	return raw
}
