package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/middleware"
	"moments/model"
	"moments/monitoring"
	"moments/repository"
	"moments/serializer"
)

type LikeHandler struct {
	likeRepo repository.LikeRepository
}

func NewLikeHandler(likeRepo repository.LikeRepository) *LikeHandler {
	return &LikeHandler{likeRepo: likeRepo}
}

func (h *LikeHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	filter := models.LikeFilter{
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

	likes, err := h.likeRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Likes(likes, requester))
}

func (h *LikeHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	likeID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	like, err := h.likeRepo.GetByID(r.Context(), likeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Like(like, requester))
}

// Create likes a post on behalf of the requester. The owner is never
// client-supplied. A repeated like comes back as the duplicate error.
func (h *LikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Post string `json:"post"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	postID, parseErr := uuid.Parse(req.Post)
	if req.Post == "" || parseErr != nil {
		writeError(w, apperr.FieldError("post", "a valid post id is required"))
		return
	}

	like, err := h.likeRepo.Create(r.Context(), requester.ID, postID)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			monitoring.DuplicateConflicts.WithLabelValues("like").Inc()
		}
		writeError(w, err)
		return
	}

	monitoring.LikesCreated.Inc()

	created, err := h.likeRepo.GetByID(r.Context(), like.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, serializer.Like(created, requester))
}

func (h *LikeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	likeID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	like, err := h.likeRepo.GetByID(r.Context(), likeID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, like.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.likeRepo.Delete(r.Context(), likeID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
