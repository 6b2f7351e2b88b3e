package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/coursehub/internal/model"
)

type BlogStore struct {
	db *sql.DB
}

func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlogPost(scanner interface{ Scan(...any) error }) (*model.BlogPost, error) {
	var p model.BlogPost
	var published int
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body, &p.Author,
		&published, &p.Views, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Published = published != 0
	return &p, nil
}

const blogCols = `id, slug, title, excerpt, body, author, published, views, created_at, updated_at`

func (s *BlogStore) Create(p model.BlogPost) (*model.BlogPost, error) {
	result, err := s.db.Exec(
		`INSERT INTO blog_posts (slug, title, excerpt, body, author, published) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Excerpt, p.Body, p.Author, boolInt(p.Published),
	)
	if err != nil {
		return nil, fmt.Errorf("insert blog post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *BlogStore) GetByID(id int64) (*model.BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE id = ?`, id)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return p, nil
}

// GetPublishedBySlug returns a published post, or nil for drafts and unknown
// slugs.
func (s *BlogStore) GetPublishedBySlug(slug string) (*model.BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE slug = ? AND published = 1`, slug)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post by slug: %w", err)
	}
	return p, nil
}

// List returns posts newest first.
func (s *BlogStore) List(includeDrafts bool) ([]model.BlogPost, error) {
	q := `SELECT ` + blogCols + ` FROM blog_posts`
	if !includeDrafts {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *BlogStore) Update(id int64, p model.BlogPost) (*model.BlogPost, error) {
	_, err := s.db.Exec(
		`UPDATE blog_posts SET slug = ?, title = ?, excerpt = ?, body = ?, author = ?, published = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p.Slug, p.Title, p.Excerpt, p.Body, p.Author, boolInt(p.Published), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return s.GetByID(id)
}

// IncrementViews bumps the view counter of a post.
func (s *BlogStore) IncrementViews(id int64) error {
	_, err := s.db.Exec(`UPDATE blog_posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (s *BlogStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

// SlugExists reports whether slug is taken by a row other than excludeID.
func (s *BlogStore) SlugExists(slug string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}
