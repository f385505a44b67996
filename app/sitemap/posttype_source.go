package sitemap

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/sitemap-comb/app/database"
)

var _ rowSource = (*PostTypeSource)(nil)

// PostTypeSource lists published posts of the declared post types.
type PostTypeSource struct {
	repo       database.PostRepository
	exclusions *ExclusionResolver
}

func NewPostTypeSource(repo database.PostRepository, exclusions *ExclusionResolver) *PostTypeSource {
	return &PostTypeSource{repo: repo, exclusions: exclusions}
}

func (s *PostTypeSource) Name() string { return "post_types" }

func (s *PostTypeSource) Kind() string { return KindGeneral }

func (s *PostTypeSource) SupportedTypes(sc *Scope) []string {
	return sc.Types(s.Name(), func() []string {
		if !sc.Settings.PostTypesOn() {
			return nil
		}
		return declaredTypes(sc.Settings.PostTypes)
	})
}

func (s *PostTypeSource) CanHandleType(sc *Scope, typ string) bool {
	return canHandle(s, sc, typ)
}

func (s *PostTypeSource) query(ctx context.Context, sc *Scope, postType string) (database.PostQuery, error) {
	exclude, err := sc.Exclusions(s.Name()+":"+postType, func() ([]int64, error) {
		ts := sc.Settings.PostTypes[postType]
		return s.exclusions.PostIDs(ctx, s.Name(), postType, ts.IgnoreIDs, ts.IgnoreURLs)
	})
	if err != nil {
		return database.PostQuery{}, err
	}

	return database.PostQuery{
		ListOptions: database.ListOptions{ExcludeIDs: exclude},
		PostType:    postType,
	}, nil
}

func (s *PostTypeSource) GetItems(ctx context.Context, sc *Scope, typ string, page int) ([]*Entry, error) {
	limit, offset, ok := pageWindow(sc, page)
	if !ok || !s.CanHandleType(sc, typ) {
		return nil, nil
	}

	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return nil, err
	}
	q.Limit, q.Offset = limit, offset

	posts, err := s.repo.ListPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s posts: %w", typ, err)
	}

	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	images, err := s.repo.ImagesForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, NewEntry(post.URL).
			WithTitle(post.Title).
			WithLastModified(orNow(post.ModifiedAt, sc)).
			WithImages(convertImages(images[post.ID])))
	}
	return entries, nil
}

func (s *PostTypeSource) GetItemCount(ctx context.Context, sc *Scope, typ string) (int, error) {
	if !s.CanHandleType(sc, typ) {
		return 0, nil
	}

	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return 0, err
	}
	return s.repo.CountPosts(ctx, q)
}

func (s *PostTypeSource) GetIndexItems(ctx context.Context, sc *Scope) ([]IndexEntry, error) {
	return buildIndex(ctx, sc, s)
}

func (s *PostTypeSource) lastModifiedAt(ctx context.Context, sc *Scope, typ string, offset int) (time.Time, error) {
	q, err := s.query(ctx, sc, typ)
	if err != nil {
		return time.Time{}, err
	}
	q.Limit, q.Offset = 1, offset

	posts, err := s.repo.ListPosts(ctx, q)
	if err != nil || len(posts) == 0 {
		return time.Time{}, err
	}
	return posts[0].ModifiedAt, nil
}

func convertImages(images []database.Image) []Image {
	out := make([]Image, 0, len(images))
	for _, image := range images {
		out = append(out, Image{Src: image.Src, Title: image.Title, Alt: image.Alt})
	}
	return out
}
