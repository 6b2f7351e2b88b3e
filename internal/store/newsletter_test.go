package store

import (
	"testing"

	"github.com/dukerupert/coursehub/internal/model"
)

func TestNewsletterSubscribe(t *testing.T) {
	ns := NewNewsletterStore(setupTestDB(t))

	sub, err := ns.Subscribe(" Ada@Example.com ", []string{"go", "devops"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if sub.Email != "ada@example.com" {
		t.Errorf("email = %q, want %q", sub.Email, "ada@example.com")
	}
	if len(sub.Interests) != 2 || sub.Interests[1] != "devops" {
		t.Errorf("interests = %v, want [go devops]", sub.Interests)
	}
	if !sub.Active {
		t.Error("expected active")
	}
}

func TestNewsletterResubscribeReactivates(t *testing.T) {
	ns := NewNewsletterStore(setupTestDB(t))

	first, _ := ns.Subscribe("ada@example.com", []string{"go"})

	ok, err := ns.Unsubscribe("ada@example.com")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if !ok {
		t.Error("expected unsubscribe to report a change")
	}
	got, _ := ns.GetByEmail("ada@example.com")
	if got.Active {
		t.Error("expected inactive after unsubscribe")
	}

	again, err := ns.Subscribe("ada@example.com", []string{"rust"})
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("id = %d, want %d (same row)", again.ID, first.ID)
	}
	if !again.Active {
		t.Error("expected reactivated")
	}
	if len(again.Interests) != 1 || again.Interests[0] != "rust" {
		t.Errorf("interests = %v, want [rust]", again.Interests)
	}
}

func TestNewsletterUnsubscribeUnknown(t *testing.T) {
	ns := NewNewsletterStore(setupTestDB(t))

	ok, err := ns.Unsubscribe("nobody@example.com")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if ok {
		t.Error("expected no change for unknown email")
	}
}

func TestNewsletterListActive(t *testing.T) {
	ns := NewNewsletterStore(setupTestDB(t))

	ns.Subscribe("a@example.com", nil)
	ns.Subscribe("b@example.com", nil)
	ns.Unsubscribe("b@example.com")

	active, err := ns.List(true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("active len = %d, want 1", len(active))
	}
	all, _ := ns.List(false)
	if len(all) != 2 {
		t.Errorf("all len = %d, want 2", len(all))
	}
	if all[0].Interests == nil {
		t.Error("interests should be an empty list, not nil")
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCourseStore(db)
	bs := NewBlogStore(db)
	es := NewEnrollmentStore(db)
	ns := NewNewsletterStore(db)

	cs.Create(model.Course{Slug: "c1", Title: "C1"})
	p, _ := bs.Create(model.BlogPost{Slug: "p1", Title: "P1", Published: true})
	bs.IncrementViews(p.ID)
	bs.IncrementViews(p.ID)
	e, _ := es.Create(model.Enrollment{CourseSlug: "c1", Name: "A", Email: "a@example.com"})
	es.Create(model.Enrollment{CourseSlug: "c1", Name: "B", Email: "b@example.com"})
	es.UpdateStatus(e.ID, "enrolled")
	ns.Subscribe("a@example.com", nil)

	st, err := NewStatsStore(db).Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := model.Stats{
		Courses: 1, BlogPosts: 1, BlogViews: 2, Enrollments: 2,
		PendingEnrollment: 1, DemoBookings: 0, Subscribers: 1,
	}
	if *st != want {
		t.Errorf("stats = %+v, want %+v", *st, want)
	}
}
