package sitemap

import (
	"regexp"
	"strconv"
)

var (
	indexPattern   = regexp.MustCompile(`^/(news-)?sitemap\.xml(\.gz)?$`)
	partialPattern = regexp.MustCompile(`^/(news-)?([A-Za-z0-9_-]+?)-sitemap(\d*)\.xml(\.gz)?$`)
)

// Request is a classified sitemap request.
type Request struct {
	Kind  string
	Type  string
	Page  int
	Index bool
	Gzip  bool
}

// Classify maps a URL path onto a sitemap request. The second result is
// false for paths that are not sitemap URLs at all.
func Classify(path string) (Request, bool) {
	if m := indexPattern.FindStringSubmatch(path); m != nil {
		return Request{
			Kind:  kindOf(m[1]),
			Index: true,
			Gzip:  m[2] != "",
		}, true
	}

	if m := partialPattern.FindStringSubmatch(path); m != nil {
		page := 1
		if m[3] != "" {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				return Request{}, false
			}
			page = n
		}

		return Request{
			Kind: kindOf(m[1]),
			Type: m[2],
			Page: page,
			Gzip: m[4] != "",
		}, true
	}

	return Request{}, false
}

func kindOf(prefix string) string {
	if prefix != "" {
		return KindNews
	}
	return KindGeneral
}
