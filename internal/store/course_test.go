package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/coursehub/internal/database"
	"github.com/dukerupert/coursehub/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCourseCRUD(t *testing.T) {
	cs := NewCourseStore(setupTestDB(t))

	c, err := cs.Create(model.Course{
		Slug: "go-basics", Title: "Go Basics", Summary: "Start here",
		Level: "beginner", PriceCents: 19900, DurationWeeks: 6, Published: true,
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if c.Title != "Go Basics" {
		t.Errorf("title = %q, want %q", c.Title, "Go Basics")
	}
	if c.PriceCents != 19900 {
		t.Errorf("price_cents = %d, want 19900", c.PriceCents)
	}
	if !c.Published {
		t.Error("expected published")
	}

	got, err := cs.GetBySlug("go-basics")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got == nil || got.ID != c.ID {
		t.Fatalf("get by slug = %+v, want id %d", got, c.ID)
	}

	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = cs.GetByID(c.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestCourseListHidesDrafts(t *testing.T) {
	cs := NewCourseStore(setupTestDB(t))

	cs.Create(model.Course{Slug: "b", Title: "B course", Published: true})
	cs.Create(model.Course{Slug: "a", Title: "A course", Published: false})

	public, err := cs.List(false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 1 || public[0].Slug != "b" {
		t.Errorf("public list = %+v, want only b", public)
	}

	all, _ := cs.List(true)
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Slug != "a" {
		t.Errorf("first = %q, want %q (ordered by title)", all[0].Slug, "a")
	}

	draft, _ := cs.GetBySlug("a")
	if draft != nil {
		t.Error("draft course should not resolve by slug")
	}
}

func TestCourseDuplicateSlug(t *testing.T) {
	cs := NewCourseStore(setupTestDB(t))

	if _, err := cs.Create(model.Course{Slug: "dup", Title: "One"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create(model.Course{Slug: "dup", Title: "Two"}); err == nil {
		t.Error("expected error for duplicate slug")
	}
}

func TestCourseSlugExists(t *testing.T) {
	cs := NewCourseStore(setupTestDB(t))

	c, _ := cs.Create(model.Course{Slug: "taken", Title: "Taken"})

	exists, err := cs.SlugExists("taken", 0)
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("expected slug to exist")
	}
	exists, _ = cs.SlugExists("taken", c.ID)
	if exists {
		t.Error("own slug should not count when excluded")
	}
	exists, _ = cs.SlugExists("free", 0)
	if exists {
		t.Error("unused slug should not exist")
	}
}
