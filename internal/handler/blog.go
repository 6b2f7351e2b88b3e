package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/coursehub/internal/auth"
	"github.com/dukerupert/coursehub/internal/model"
	"github.com/dukerupert/coursehub/internal/response"
	"github.com/dukerupert/coursehub/internal/store"
	"github.com/dukerupert/coursehub/internal/validate"
)

type BlogHandler struct {
	store  *store.BlogStore
	logger *slog.Logger
}

func NewBlogHandler(s *store.BlogStore, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{store: s, logger: logger}
}

type blogRequest struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}

func (req *blogRequest) normalize() {
	req.Slug, req.Title = trim(req.Slug), trim(req.Title)
	req.Excerpt, req.Author = trim(req.Excerpt), trim(req.Author)
}

func (req blogRequest) validate() validate.Result {
	return validate.New().
		Required("slug", req.Slug).
		Custom("slug", req.Slug == "" || slugRegexp.MatchString(req.Slug), "slug must be lowercase words separated by dashes").
		MaxLength("slug", req.Slug, 120).
		Required("title", req.Title).
		MinLength("title", req.Title, 3).
		MaxLength("title", req.Title, 200).
		MaxLength("excerpt", req.Excerpt, 500).
		Required("body", req.Body).
		MaxLength("author", req.Author, 100).
		Result()
}

func (req blogRequest) post() model.BlogPost {
	return model.BlogPost{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Author:    req.Author,
		Published: req.Published,
	}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// AdminList includes drafts.
func (h *BlogHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request, includeDrafts bool) {
	posts, err := h.store.List(includeDrafts)
	if err != nil {
		serverError(w, r, h.logger, "list blog posts", err)
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	response.Write(w, response.From(r.Context()).Success(posts, ""))
}

// Get returns a published post and counts the view. A failure to count is
// logged and does not fail the read.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	post, err := h.store.GetPublishedBySlug(r.PathValue("slug"))
	if err != nil {
		serverError(w, r, h.logger, "get blog post", err)
		return
	}
	if post == nil {
		response.Write(w, rb.NotFound("Blog post"))
		return
	}

	if err := h.store.IncrementViews(post.ID); err != nil {
		h.logger.Warn("count blog view", "error", err, "id", post.ID)
	} else {
		post.Views++
	}
	response.Write(w, rb.Success(post, ""))
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	var req blogRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.normalize()
	if req.Author == "" {
		req.Author = auth.Username(r.Context())
	}

	if res := req.validate(); !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	exists, err := h.store.SlugExists(req.Slug, 0)
	if err != nil {
		serverError(w, r, h.logger, "check blog slug", err)
		return
	}
	if exists {
		response.Write(w, rb.Conflict("a blog post with that slug already exists"))
		return
	}

	post, err := h.store.Create(req.post())
	if err != nil {
		serverError(w, r, h.logger, "create blog post", err)
		return
	}
	response.Write(w, rb.Created(post, "Blog post created"))
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get blog post", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Blog post"))
		return
	}

	var req blogRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	req.normalize()
	if req.Author == "" {
		req.Author = existing.Author
	}

	if res := req.validate(); !res.Valid {
		response.Write(w, rb.ValidationError(res.Errors))
		return
	}

	exists, err := h.store.SlugExists(req.Slug, id)
	if err != nil {
		serverError(w, r, h.logger, "check blog slug", err)
		return
	}
	if exists {
		response.Write(w, rb.Conflict("a blog post with that slug already exists"))
		return
	}

	post, err := h.store.Update(id, req.post())
	if err != nil {
		serverError(w, r, h.logger, "update blog post", err)
		return
	}
	response.Write(w, rb.Success(post, "Blog post updated"))
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rb := response.From(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		invalidID(w, r)
		return
	}
	existing, err := h.store.GetByID(id)
	if err != nil {
		serverError(w, r, h.logger, "get blog post", err)
		return
	}
	if existing == nil {
		response.Write(w, rb.NotFound("Blog post"))
		return
	}
	if err := h.store.Delete(id); err != nil {
		serverError(w, r, h.logger, "delete blog post", err)
		return
	}
	response.Write(w, rb.Success(nil, "Blog post deleted"))
}
