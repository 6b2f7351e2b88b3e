package handler

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

var (
	slugRegexp   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	courseLevels = []string{"beginner", "intermediate", "advanced"}
)

type CourseHandler struct {
	store  *store.CourseStore
	logger *slog.Logger
}

func NewCourseHandler(s *store.CourseStore, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{store: s, logger: logger}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// AdminList includes unpublished courses.
func (h *CourseHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *CourseHandler) list(w http.ResponseWriter, r *http.Request, includeDrafts bool) {
	courses, err := h.store.List(includeDrafts)
	if err != nil {
		serverError(w, r, h.logger, "list courses", err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	response.Write(w, response.From(r.Context()).Success(courses, ""))
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	course, err := h.store.GetBySlug(r.PathValue("slug"))
	if err != nil {
		serverError(w, r, h.logger, "get course", err)
		return
	}
	if course == nil {
		response.Write(w, rb.NotFound("Course"))
		return
	}
	response.Write(w, rb.Success(course, ""))
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req struct {
		Slug          string `json:"slug"`
		Title         string `json:"title"`
		Summary       string `json:"summary"`
		Level         string `json:"level"`
		PriceCents    int64  `json:"price_cents"`
		DurationWeeks int    `json:"duration_weeks"`
		Published     *bool  `json:"published"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Slug, req.Title, req.Summary = trim(req.Slug), trim(req.Title), trim(req.Summary)
	if req.Level == "" {
		req.Level = "beginner"
	}

	res := validate.New().
		Required("slug", req.Slug).
		Custom("slug", req.Slug == "" || slugRegexp.MatchString(req.Slug), "slug must be lowercase words separated by dashes").
		Required("title", req.Title).
		MinLength("title", req.Title, 3).
		MaxLength("title", req.Title, 200).
		MaxLength("summary", req.Summary, 1000).
		OneOf("level", req.Level, courseLevels...).
		Custom("price_cents", req.PriceCents >= 0, "price_cents must not be negative").
		Custom("duration_weeks", req.DurationWeeks >= 0, "duration_weeks must not be negative").
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	exists, err := h.store.SlugExists(req.Slug, 0)
	if err != nil {
		serverError(w, r, h.logger, "check course slug", err)
		return
	}
	if exists {
		response.Write(w, rb.Conflict("a course with that slug already exists"))
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	course, err := h.store.Create(model.Course{
		Slug:          req.Slug,
		Title:         req.Title,
		Summary:       req.Summary,
		Level:         req.Level,
		PriceCents:    req.PriceCents,
		DurationWeeks: req.DurationWeeks,
		Published:     published,
	})
	if err != nil {
		serverError(w, r, h.logger, "create course", err)
		return
	}
	response.Write(w, rb.Created(course, "Course created"))
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get course", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Course"))
		return
	}
	if err := h.store.Delete(id); err != nil {
		serverError(w, r, h.logger, "delete course", err)
		return
	}
	response.Write(w, rb.Success(nil, "Course deleted"))
}
