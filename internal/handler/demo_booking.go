package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/coursehub/internal/feed"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

type DemoBookingHandler struct {
	store   *store.DemoBookingStore
	nowFunc func() time.Time
	announcer
}

func NewDemoBookingHandler(s *store.DemoBookingStore, n Notifier, p feed.Publisher, logger *slog.Logger) *DemoBookingHandler {
	return &DemoBookingHandler{
		store:     s,
		nowFunc:   time.Now,
		announcer: announcer{notifier: n, publisher: p, logger: logger},
	}
}

// validDemoDate accepts an empty value or a YYYY-MM-DD date that is not in
// the past.
func validDemoDate(s string, now time.Time) bool {
	if s == "" {
		return true
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

func (h *DemoBookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Company       string `json:"company"`
		PreferredDate string `json:"preferred_date"`
		Notes         string `json:"notes"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Name, req.Email, req.Phone = trim(req.Name), trim(req.Email), trim(req.Phone)
	req.Company, req.PreferredDate, req.Notes = trim(req.Company), trim(req.PreferredDate), trim(req.Notes)

	res := validate.New().
		Required("name", req.Name).
		MinLength("name", req.Name, 2).
		MaxLength("name", req.Name, 100).
		Required("email", req.Email).
		Email("email", req.Email).
		Phone("phone", req.Phone).
		MaxLength("company", req.Company, 200).
		Custom("preferred_date", validDemoDate(req.PreferredDate, h.nowFunc().UTC()), "preferred_date must be a future date in YYYY-MM-DD format").
		MaxLength("notes", req.Notes, 2000).
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	b, err := h.store.Create(model.DemoBooking{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		PreferredDate: req.PreferredDate,
		Notes:         req.Notes,
	})
	if err != nil {
		serverError(w, r, h.logger, "create demo booking", err)
		return
	}

	h.publish(feed.NewEvent("demo_booking", "created", b.ID, b.Name))
	h.mail(r.Context(), "demo_booking", func(ctx context.Context, n Notifier) error {
		return n.NotifyDemoBooking(ctx, *b)
	})

	response.Write(w, rb.Created(b, "Demo booked. We will confirm by email."))
}

func (h *DemoBookingHandler) List(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	status := r.URL.Query().Get("status")
	if res := validate.New().OneOf("status", status, model.DemoBookingStatuses...).Result(); !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	bookings, err := h.store.List(status)
	if err != nil {
		serverError(w, r, h.logger, "list demo bookings", err)
		return
	}
	if bookings == nil {
		bookings = []model.DemoBooking{}
	}
	response.Write(w, rb.Success(bookings, ""))
}

func (h *DemoBookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get demo booking", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Demo booking"))
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
		OneOf("status", req.Status, model.DemoBookingStatuses...).
		Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	b, err := h.store.UpdateStatus(id, req.Status)
	if err != nil {
		serverError(w, r, h.logger, "update demo booking status", err)
		return
	}
	h.publish(feed.NewEvent("demo_booking", "updated", b.ID, b.Status))
	response.Write(w, rb.Success(b, "Status updated"))
}

func (h *DemoBookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get demo booking", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Demo booking"))
		return
	}
	if err := h.store.Delete(id); err != nil {
		serverError(w, r, h.logger, "delete demo booking", err)
		return
	}
	h.publish(feed.NewEvent("demo_booking", "deleted", id, ""))
	response.Write(w, rb.Success(nil, "Demo booking deleted"))
}
