package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/coursehub/internal/feed"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

type EnrollmentHandler struct {
	store   *store.EnrollmentStore
	courses *store.CourseStore
	announcer
}

func NewEnrollmentHandler(s *store.EnrollmentStore, cs *store.CourseStore, n Notifier, p feed.Publisher, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		store:     s,
		courses:   cs,
		announcer: announcer{notifier: n, publisher: p, logger: logger},
	}
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req struct {
		CourseSlug string `json:"course_slug"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Message    string `json:"message"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.CourseSlug, req.Name, req.Email = trim(req.CourseSlug), trim(req.Name), trim(req.Email)
	req.Phone, req.Message = trim(req.Phone), trim(req.Message)

	var course *model.Course
	if req.CourseSlug != "" {
		c, err := h.courses.GetBySlug(req.CourseSlug)
		if err != nil {
			serverError(w, r, h.logger, "look up course", err)
			return
		}
		course = c
	}

	res := validate.New().
		Required("course_slug", req.CourseSlug).
		Custom("course_slug", req.CourseSlug == "" || course != nil, "course_slug must reference an available course").
		Required("name", req.Name).
		MinLength("name", req.Name, 2).
		MaxLength("name", req.Name, 100).
		Required("email", req.Email).
		Email("email", req.Email).
		Phone("phone", req.Phone).
		MaxLength("message", req.Message, 2000).
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	e, err := h.store.Create(model.Enrollment{
		CourseSlug: req.CourseSlug,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
	})
	if err != nil {
		serverError(w, r, h.logger, "create enrollment", err)
		return
	}

	h.publish(feed.NewEvent("enrollment", "created", e.ID, e.Name+" for "+e.CourseSlug))
	h.mail(r.Context(), "enrollment", func(ctx context.Context, n Notifier) error {
		return n.NotifyEnrollment(ctx, *e)
	})

	response.Write(w, rb.Created(e, "Enrollment received. We will be in touch soon."))
}

func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	status := r.URL.Query().Get("status")
	if res := validate.New().OneOf("status", status, model.EnrollmentStatuses...).Result(); !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	enrollments, err := h.store.List(status)
	if err != nil {
		serverError(w, r, h.logger, "list enrollments", err)
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	response.Write(w, rb.Success(enrollments, ""))
}

func (h *EnrollmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get enrollment", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Enrollment"))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res := validate.New().
		Required("status", req.Status).
		OneOf("status", req.Status, model.EnrollmentStatuses...).
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	e, err := h.store.UpdateStatus(id, req.Status)
	if err != nil {
		serverError(w, r, h.logger, "update enrollment status", err)
		return
	}
	h.publish(feed.NewEvent("enrollment", "updated", e.ID, e.Status))
	response.Write(w, rb.Success(e, "Status updated"))
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get enrollment", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Enrollment"))
		return
	}
	if err := h.store.Delete(id); err != nil {
		serverError(w, r, h.logger, "delete enrollment", err)
		return
	}
	h.publish(feed.NewEvent("enrollment", "deleted", id, ""))
	response.Write(w, rb.Success(nil, "Enrollment deleted"))
}
