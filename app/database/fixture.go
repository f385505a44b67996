package database

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixture is a YAML document describing content rows, used to seed local
// and test content stores.
type Fixture struct {
	Terms []struct {
		ID           int64     `yaml:"id"`
		Taxonomy     string    `yaml:"taxonomy"`
		Slug         string    `yaml:"slug"`
		Name         string    `yaml:"name"`
		PostCount    int       `yaml:"post_count"`
		CanonicalURL string    `yaml:"canonical_url"`
		ModifiedAt   time.Time `yaml:"modified_at"`
	} `yaml:"terms"`

	Posts []struct {
		ID           int64     `yaml:"id"`
		PostType     string    `yaml:"post_type"`
		Status       string    `yaml:"status"`
		Title        string    `yaml:"title"`
		URL          string    `yaml:"url"`
		CanonicalURL string    `yaml:"canonical_url"`
		PublishedAt  time.Time `yaml:"published_at"`
		ModifiedAt   time.Time `yaml:"modified_at"`
		Terms        []int64   `yaml:"terms"`
		Images       []struct {
			Src   string `yaml:"src"`
			Title string `yaml:"title"`
			Alt   string `yaml:"alt"`
		} `yaml:"images"`
	} `yaml:"posts"`

	Groups   []fixtureSocial `yaml:"groups"`
	Profiles []fixtureSocial `yaml:"profiles"`
}

type fixtureSocial struct {
	ID           int64     `yaml:"id"`
	Slug         string    `yaml:"slug"`
	Name         string    `yaml:"name"`
	Status       string    `yaml:"status"`
	CanonicalURL string    `yaml:"canonical_url"`
	ModifiedAt   time.Time `yaml:"modified_at"`
}

func (f fixtureSocial) record() SocialRecord {
	return SocialRecord{
		ID:           f.ID,
		Slug:         f.Slug,
		Name:         f.Name,
		CanonicalURL: f.CanonicalURL,
		ModifiedAt:   f.ModifiedAt,
	}
}

func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &fixture, nil
}

// Apply inserts every row of the fixture and returns the number of rows.
// Terms go first so post relations resolve.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) (int, error) {
	rows := 0

	for _, t := range fixture.Terms {
		err := s.InsertTerm(ctx, Term{
			ID:           t.ID,
			Taxonomy:     t.Taxonomy,
			Slug:         t.Slug,
			Name:         t.Name,
			PostCount:    t.PostCount,
			CanonicalURL: t.CanonicalURL,
			LastModified: t.ModifiedAt,
		})
		if err != nil {
			return rows, err
		}
		rows++
	}

	for _, p := range fixture.Posts {
		images := make([]Image, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, Image{Src: img.Src, Title: img.Title, Alt: img.Alt})
		}

		post := Post{
			ID:           p.ID,
			PostType:     p.PostType,
			Title:        p.Title,
			URL:          p.URL,
			CanonicalURL: p.CanonicalURL,
			PublishedAt:  p.PublishedAt,
			ModifiedAt:   p.ModifiedAt,
		}
		if err := s.InsertPost(ctx, post, p.Status, p.Terms, images); err != nil {
			return rows, err
		}
		rows++
	}

	for _, g := range fixture.Groups {
		if err := s.InsertGroup(ctx, g.record(), g.Status); err != nil {
			return rows, err
		}
		rows++
	}

	for _, p := range fixture.Profiles {
		if err := s.InsertProfile(ctx, p.record(), p.Status); err != nil {
			return rows, err
		}
		rows++
	}

	return rows, nil
}
