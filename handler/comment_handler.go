package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/middleware"
	"moments/model"
	"moments/repository"
	"moments/serializer"
)

type CommentHandler struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentHandler(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	filter := models.CommentFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	var err error
	if filter.PostID, err = queryUUID(r, "post"); err != nil {
		writeError(w, err)
		return
	}
	if filter.OwnerID, err = queryUUID(r, "owner"); err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.commentRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Comments(comments, requester))
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	commentID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Comment(comment, requester))
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Post    string `json:"post"`
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ve := apperr.NewValidationError()
	postID, parseErr := uuid.Parse(req.Post)
	if req.Post == "" || parseErr != nil {
		ve.Add("post", "a valid post id is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		ve.Add("content", "this field is required")
	}
	if !ve.Empty() {
		writeError(w, ve)
		return
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New(),
		OwnerID:   requester.ID,
		PostID:    postID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A missing post surfaces as a foreign key violation → not found.
	if err := h.commentRepo.Create(r.Context(), comment); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.commentRepo.GetByID(r.Context(), comment.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, serializer.Comment(created, requester))
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	commentID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, comment.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeError(w, apperr.FieldError("content", "this field is required"))
		return
	}

	if err := h.commentRepo.Update(r.Context(), commentID, req.Content); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Comment(updated, requester))
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	commentID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, comment.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.commentRepo.Delete(r.Context(), commentID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
