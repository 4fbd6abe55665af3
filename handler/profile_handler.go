package handler

import (
	"net/http"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/media"
	"moments/middleware"
	"moments/model"
	"moments/repository"
	"moments/serializer"
)

type ProfileHandler struct {
	profileRepo  repository.ProfileRepository
	followerRepo repository.FollowerRepository
	mediaStore   *media.Store
}

func NewProfileHandler(profileRepo repository.ProfileRepository, followerRepo repository.FollowerRepository, mediaStore *media.Store) *ProfileHandler {
	return &ProfileHandler{
		profileRepo:  profileRepo,
		followerRepo: followerRepo,
		mediaStore:   mediaStore,
	}
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	filter := models.ProfileFilter{
		Ordering: r.URL.Query().Get("ordering"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	var err error
	if filter.OwnerID, err = queryUUID(r, "owner"); err != nil {
		writeError(w, err)
		return
	}
	if filter.FollowedBy, err = queryUUID(r, "followed_by"); err != nil {
		writeError(w, err)
		return
	}
	if filter.Following, err = queryUUID(r, "following"); err != nil {
		writeError(w, err)
		return
	}

	profiles, err := h.profileRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	followingIDs, err := h.followingIDs(r, requester, profiles)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Profiles(profiles, requester, followingIDs))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	profileID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profileRepo.GetByID(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}

	followingIDs, err := h.followingIDs(r, requester, []models.ProfileRow{*profile})
	if err != nil {
		writeError(w, err)
		return
	}

	var followingID *uuid.UUID
	if id, ok := followingIDs[profile.OwnerID]; ok {
		followingID = &id
	}

	writeJSON(w, http.StatusOK, serializer.Profile(profile, requester, followingID))
}

// Update mutates the requester's own profile. Accepts JSON, or a multipart
// form when an image is uploaded.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	profileID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profileRepo.GetByID(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, profile.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	input, err := h.decodeUpdate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.profileRepo.Update(r.Context(), profileID, input); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.profileRepo.GetByID(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}

	followingIDs, err := h.followingIDs(r, requester, []models.ProfileRow{*updated})
	if err != nil {
		writeError(w, err)
		return
	}

	var followingID *uuid.UUID
	if id, ok := followingIDs[updated.OwnerID]; ok {
		followingID = &id
	}

	writeJSON(w, http.StatusOK, serializer.Profile(updated, requester, followingID))
}

func (h *ProfileHandler) decodeUpdate(r *http.Request) (*models.UpdateProfileInput, error) {
	input := &models.UpdateProfileInput{}

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, apperr.FieldError("body", "invalid multipart form")
		}
		if values, ok := r.MultipartForm.Value["name"]; ok && len(values) > 0 {
			input.Name = &values[0]
		}
		if values, ok := r.MultipartForm.Value["content"]; ok && len(values) > 0 {
			input.Content = &values[0]
		}

		image, err := imageUpload(r, h.mediaStore)
		if err != nil {
			return nil, err
		}
		input.Image = image
		return input, nil
	}

	var req struct {
		Name    *string `json:"name"`
		Content *string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	input.Name = req.Name
	input.Content = req.Content
	return input, nil
}

// followingIDs resolves the requester's follow edges toward the listed
// profile owners in one query; empty for anonymous requesters.
func (h *ProfileHandler) followingIDs(r *http.Request, requester *models.Requester, profiles []models.ProfileRow) (map[uuid.UUID]uuid.UUID, error) {
	if requester == nil || len(profiles) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}

	ownerIDs := make([]uuid.UUID, len(profiles))
	for i, profile := range profiles {
		ownerIDs[i] = profile.OwnerID
	}

	return h.followerRepo.FollowingIDsFor(r.Context(), requester.ID, ownerIDs)
}
