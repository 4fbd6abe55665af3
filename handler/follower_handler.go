package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/events"
	"moments/middleware"
	"moments/model"
	"moments/monitoring"
	"moments/publisher"
	"moments/repository"
	"moments/serializer"
)

type FollowerHandler struct {
	followerRepo repository.FollowerRepository
	events       *publisher.EventPublisher
}

func NewFollowerHandler(followerRepo repository.FollowerRepository, events *publisher.EventPublisher) *FollowerHandler {
	return &FollowerHandler{
		followerRepo: followerRepo,
		events:       events,
	}
}

func (h *FollowerHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	filter := models.FollowerFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	var err error
	if filter.OwnerID, err = queryUUID(r, "owner"); err != nil {
		writeError(w, err)
		return
	}
	if filter.FollowedID, err = queryUUID(r, "followed"); err != nil {
		writeError(w, err)
		return
	}

	follows, err := h.followerRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Followers(follows, requester))
}

func (h *FollowerHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	followID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	follow, err := h.followerRepo.GetByID(r.Context(), followID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Follower(follow, requester))
}

// Create follows a user on behalf of the requester. Repeated follows come
// back as the duplicate error; self-follows as a field error.
func (h *FollowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Followed string `json:"followed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	followedID, parseErr := uuid.Parse(req.Followed)
	if req.Followed == "" || parseErr != nil {
		writeError(w, apperr.FieldError("followed", "a valid user id is required"))
		return
	}

	follow, err := h.followerRepo.Create(r.Context(), requester.ID, followedID)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			monitoring.DuplicateConflicts.WithLabelValues("follower").Inc()
		}
		writeError(w, err)
		return
	}

	monitoring.FollowsCreated.Inc()
	if h.events != nil {
		h.events.PublishUserFollowed(events.UserFollowedEvent{
			FollowID:   follow.ID,
			OwnerID:    follow.OwnerID,
			FollowedID: follow.FollowedID,
			CreatedAt:  follow.CreatedAt,
		})
	}

	created, err := h.followerRepo.GetByID(r.Context(), follow.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, serializer.Follower(created, requester))
}

func (h *FollowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	followID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	follow, err := h.followerRepo.GetByID(r.Context(), followID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, follow.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.followerRepo.Delete(r.Context(), followID); err != nil {
		writeError(w, err)
		return
	}

	if h.events != nil {
		h.events.PublishUserUnfollowed(events.UserUnfollowedEvent{
			OwnerID:    follow.OwnerID,
			FollowedID: follow.FollowedID,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}
