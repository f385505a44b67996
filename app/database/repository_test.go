package database

import (
	"context"
	"reflect"
	"testing"
	"time"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedContent(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	s := NewSeeder(db)

	terms := []Term{
		{ID: 1, Taxonomy: "category", Slug: "news", Name: "News", PostCount: 2, LastModified: base},
		{ID: 2, Taxonomy: "category", Slug: "sport", Name: "Sport", PostCount: 1, LastModified: base.Add(-time.Hour)},
		{ID: 3, Taxonomy: "category", Slug: "empty", Name: "Empty", PostCount: 0, LastModified: base},
		{ID: 4, Taxonomy: "post_tag", Slug: "go", Name: "Go", PostCount: 1, LastModified: base,
			CanonicalURL: "https://example.com/canonical-go/"},
	}
	for _, term := range terms {
		if err := s.InsertTerm(ctx, term); err != nil {
			t.Fatalf("InsertTerm: %v", err)
		}
	}

	posts := []struct {
		post   Post
		status string
		terms  []int64
		images []Image
	}{
		{Post{ID: 10, PostType: "post", Title: "A", URL: "https://example.com/a/", PublishedAt: base, ModifiedAt: base.Add(3 * time.Hour)},
			"", []int64{1}, []Image{{Src: "https://example.com/a1.jpg", Title: "one"}, {Src: "https://example.com/a2.jpg"}}},
		{Post{ID: 11, PostType: "post", Title: "B", URL: "https://example.com/b/", PublishedAt: base, ModifiedAt: base.Add(1 * time.Hour)},
			"", []int64{1, 4}, nil},
		{Post{ID: 12, PostType: "post", Title: "C", URL: "https://example.com/c/", PublishedAt: base, ModifiedAt: base.Add(1 * time.Hour),
			CanonicalURL: "https://example.com/canonical-c/"}, "", []int64{2}, nil},
		{Post{ID: 13, PostType: "post", Title: "Draft", URL: "https://example.com/draft/", PublishedAt: base, ModifiedAt: base.Add(9 * time.Hour)},
			"draft", []int64{2}, nil},
		{Post{ID: 20, PostType: "page", Title: "About", URL: "https://example.com/about/", PublishedAt: base, ModifiedAt: base},
			"", nil, nil},
	}
	for _, p := range posts {
		if err := s.InsertPost(ctx, p.post, p.status, p.terms, p.images); err != nil {
			t.Fatalf("InsertPost: %v", err)
		}
	}

	if err := s.InsertGroup(ctx, SocialRecord{ID: 1, Slug: "hikers", Name: "Hikers", ModifiedAt: base}, ""); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}
	if err := s.InsertGroup(ctx, SocialRecord{ID: 2, Slug: "secret", Name: "Secret", ModifiedAt: base}, "hidden"); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}
	if err := s.InsertProfile(ctx, SocialRecord{ID: 7, Slug: "jane", Name: "Jane", ModifiedAt: base}, ""); err != nil {
		t.Fatalf("InsertProfile: %v", err)
	}
}

func postIDs(posts []Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestPostRepo_ListPostsOrderAndPaging(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	posts, err := repo.ListPosts(ctx, PostQuery{PostType: "post"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}

	// 11 and 12 share a timestamp, ties break on ID; the draft never shows.
	if got, want := postIDs(posts), []int64{11, 12, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}
	if posts[1].CanonicalURL != "https://example.com/canonical-c/" {
		t.Errorf("unexpected canonical URL %q", posts[1].CanonicalURL)
	}
	if !posts[2].ModifiedAt.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("unexpected modified time %v", posts[2].ModifiedAt)
	}

	page, err := repo.ListPosts(ctx, PostQuery{PostType: "post", ListOptions: ListOptions{Limit: 2, Offset: 2}})
	if err != nil {
		t.Fatalf("ListPosts page: %v", err)
	}
	if got := postIDs(page); !reflect.DeepEqual(got, []int64{10}) {
		t.Errorf("expected second page [10], got %v", got)
	}

	count, err := repo.CountPosts(ctx, PostQuery{PostType: "post"})
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 published posts, got %d", count)
	}
}

func TestPostRepo_Filters(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		query PostQuery
		want  []int64
	}{
		{"exclude ids", PostQuery{PostType: "post", ListOptions: ListOptions{ExcludeIDs: []int64{11}}}, []int64{12, 10}},
		{"modified since", PostQuery{PostType: "post", ModifiedSince: base.Add(2 * time.Hour).Unix()}, []int64{10}},
		{"term filter", PostQuery{PostType: "post", TermIDs: []int64{4}}, []int64{11}},
		{"other type", PostQuery{PostType: "page"}, []int64{20}},
		{"unknown type", PostQuery{PostType: "product"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.ListPosts(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListPosts: %v", err)
			}
			if got := postIDs(posts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}

			count, err := repo.CountPosts(ctx, tt.query)
			if err != nil {
				t.Fatalf("CountPosts: %v", err)
			}
			if count != len(tt.want) {
				t.Errorf("expected count %d, got %d", len(tt.want), count)
			}
		})
	}
}

func TestPostRepo_Lookups(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ids, err := repo.PostIDsByURLs(ctx, "post", []string{"https://example.com/b/", "https://example.com/about/"})
	if err != nil {
		t.Fatalf("PostIDsByURLs: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{11}) {
		t.Errorf("expected [11], got %v", ids)
	}

	ids, err = repo.PostIDsByCanonical(ctx, "post", []string{"https://example.com/canonical-c/"})
	if err != nil {
		t.Fatalf("PostIDsByCanonical: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{12}) {
		t.Errorf("expected [12], got %v", ids)
	}

	ids, err = repo.PostIDsByTerms(ctx, []int64{1, 2})
	if err != nil {
		t.Fatalf("PostIDsByTerms: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{10, 11, 12, 13}) {
		t.Errorf("expected [10 11 12 13], got %v", ids)
	}

	ids, err = repo.PostIDsByTerms(ctx, nil)
	if err != nil || ids != nil {
		t.Errorf("expected no ids for empty input, got %v, %v", ids, err)
	}

	images, err := repo.ImagesForPosts(ctx, []int64{10, 11})
	if err != nil {
		t.Fatalf("ImagesForPosts: %v", err)
	}
	if len(images[10]) != 2 || images[10][0].Title != "one" || images[10][1].Src != "https://example.com/a2.jpg" {
		t.Errorf("unexpected images for post 10: %+v", images[10])
	}
	if len(images[11]) != 0 {
		t.Errorf("expected no images for post 11, got %+v", images[11])
	}
}

func TestTermRepo_ListTerms(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewTermRepository(db)
	ctx := context.Background()

	terms, err := repo.ListTerms(ctx, "category", ListOptions{})
	if err != nil {
		t.Fatalf("ListTerms: %v", err)
	}

	// sport: newest published post is 12 (+1h), the draft does not count.
	// news: newest published post is 10 (+3h). Empty terms are skipped.
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Slug != "sport" || !terms[0].LastModified.Equal(base.Add(time.Hour)) {
		t.Errorf("unexpected first term %+v", terms[0])
	}
	if terms[1].Slug != "news" || !terms[1].LastModified.Equal(base.Add(3*time.Hour)) {
		t.Errorf("unexpected second term %+v", terms[1])
	}

	terms, err = repo.ListTerms(ctx, "category", ListOptions{ExcludeIDs: []int64{2}, Limit: 1})
	if err != nil {
		t.Fatalf("ListTerms: %v", err)
	}
	if len(terms) != 1 || terms[0].ID != 1 {
		t.Errorf("expected only term 1, got %+v", terms)
	}

	count, err := repo.CountTerms(ctx, "category", []int64{2})
	if err != nil {
		t.Fatalf("CountTerms: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 term, got %d", count)
	}
}

func TestTermRepo_Lookups(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewTermRepository(db)
	ctx := context.Background()

	id, ok, err := repo.TermIDBySlug(ctx, "category", "sport")
	if err != nil || !ok || id != 2 {
		t.Errorf("expected sport=2, got %d %v %v", id, ok, err)
	}

	_, ok, err = repo.TermIDBySlug(ctx, "post_tag", "sport")
	if err != nil || ok {
		t.Errorf("expected no match across taxonomies, got %v %v", ok, err)
	}

	exists, err := repo.TermExists(ctx, "category", 3)
	if err != nil || !exists {
		t.Errorf("expected term 3 to exist, got %v %v", exists, err)
	}

	ids, err := repo.TermIDsByCanonical(ctx, "post_tag", []string{"https://example.com/canonical-go/"})
	if err != nil {
		t.Fatalf("TermIDsByCanonical: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{4}) {
		t.Errorf("expected [4], got %v", ids)
	}
}

func TestSocialRepo(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	ctx := context.Background()

	groups := NewGroupRepository(db)
	records, err := groups.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Slug != "hikers" {
		t.Errorf("expected only the public group, got %+v", records)
	}

	count, err := groups.Count(ctx, []int64{1})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 after exclusion, got %d", count)
	}

	id, ok, err := groups.IDBySlug(ctx, "secret")
	if err != nil || !ok || id != 2 {
		t.Errorf("expected secret=2, got %d %v %v", id, ok, err)
	}

	profiles := NewProfileRepository(db)
	count, err = profiles.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 profile, got %d", count)
	}
}

func TestChangeRepo_DetectsMutation(t *testing.T) {
	db := openTestDB(t)
	seedContent(t, db)
	repo := NewChangeRepository(db)
	ctx := context.Background()

	before, err := repo.ChangeStamps(ctx)
	if err != nil {
		t.Fatalf("ChangeStamps: %v", err)
	}
	if len(before) != len(ContentTables) {
		t.Fatalf("expected %d stamps, got %d", len(ContentTables), len(before))
	}

	if err := NewSeeder(db).TouchPost(ctx, 20, base.Add(48*time.Hour)); err != nil {
		t.Fatalf("TouchPost: %v", err)
	}

	after, err := repo.ChangeStamps(ctx)
	if err != nil {
		t.Fatalf("ChangeStamps: %v", err)
	}
	if before["posts"] == after["posts"] {
		t.Errorf("expected posts stamp to change, still %q", after["posts"])
	}
	if before["terms"] != after["terms"] {
		t.Errorf("expected terms stamp to stay %q, got %q", before["terms"], after["terms"])
	}
}
