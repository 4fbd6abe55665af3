package handler

import (
	"net/http"

	"github.com/google/uuid"

	"moments/middleware"
	"moments/model"
	"moments/repository"
	"moments/serializer"
)

type FeedHandler struct {
	feedRepo repository.FeedRepository
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewFeedHandler(feedRepo repository.FeedRepository, postRepo repository.PostRepository, likeRepo repository.LikeRepository) *FeedHandler {
	return &FeedHandler{
		feedRepo: feedRepo,
		postRepo: postRepo,
		likeRepo: likeRepo,
	}
}

// Get returns the requester's timeline: posts authored by users they
// follow, newest first.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	postIDs, err := h.feedRepo.GetTimeline(r.Context(), requester.ID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.postRepo.ListByIDs(r.Context(), postIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	// Hydration loses the timeline order, restore it.
	byID := make(map[uuid.UUID]models.PostRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.PostRow, 0, len(postIDs))
	for _, id := range postIDs {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}

	var likeIDs map[uuid.UUID]uuid.UUID
	if len(ordered) > 0 {
		ids := make([]uuid.UUID, len(ordered))
		for i, row := range ordered {
			ids[i] = row.ID
		}
		likeIDs, err = h.likeRepo.LikeIDsForPosts(r.Context(), requester.ID, ids)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, serializer.Posts(ordered, requester, likeIDs))
}
