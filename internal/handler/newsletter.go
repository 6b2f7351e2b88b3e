package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/coursehub/internal/feed"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

const maxInterests = 10

type NewsletterHandler struct {
	store *store.NewsletterStore
	announcer
}

func NewNewsletterHandler(s *store.NewsletterStore, p feed.Publisher, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		store:     s,
		announcer: announcer{publisher: p, logger: logger},
	}
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req struct {
		Email     string   `json:"email"`
		Interests []string `json:"interests"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Email = trim(req.Email)

	v := validate.New().
		Required("email", req.Email).
		Email("email", req.Email).
		NotEmpty("interests", len(req.Interests)).
		Custom("interests", len(req.Interests) <= maxInterests, "interests must not contain more than 10 items")
	interests := make([]string, 0, len(req.Interests))
	for _, in := range req.Interests {
		in = trim(in)
		v.Required("interests", in).MaxLength("interests", in, 50)
		if in != "" {
			interests = append(interests, in)
		}
	}
	if res := v.Result(); !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	sub, err := h.store.Subscribe(req.Email, interests)
	if err != nil {
		serverError(w, r, h.logger, "subscribe", err)
		return
	}
	h.publish(feed.NewEvent("subscriber", "created", sub.ID, sub.Email))
	response.Write(w, rb.Success(sub, "Subscribed"))
}

// Unsubscribe answers the same way whether or not the address was on the
// list, so the endpoint cannot be used to discover subscribers.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.Email = trim(req.Email)

	res := validate.New().Required("email", req.Email).Email("email", req.Email).Result()
	if !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	if _, err := h.store.Unsubscribe(req.Email); err != nil {
		serverError(w, r, h.logger, "unsubscribe", err)
		return
	}
	response.Write(w, rb.Success(nil, "Unsubscribed"))
}

func (h *NewsletterHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.List(r.URL.Query().Get("active") == "true")
	if err != nil {
		serverError(w, r, h.logger, "list subscribers", err)
		return
	}
	if subs == nil {
		subs = []model.Subscriber{}
	}
	response.Write(w, response.From(r.Context()).Success(subs, ""))
}

func (h *NewsletterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get subscriber", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Subscriber"))
		return
	}
	if err := h.store.Delete(id); err != nil {
		serverError(w, r, h.logger, "delete subscriber", err)
		return
	}
	response.Write(w, rb.Success(nil, "Subscriber deleted"))
}
