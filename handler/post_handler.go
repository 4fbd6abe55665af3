package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"moments/apperr"
	"moments/events"
	"moments/media"
	"moments/middleware"
	"moments/model"
	"moments/monitoring"
	"moments/publisher"
	"moments/repository"
	"moments/serializer"
)

type PostHandler struct {
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	mediaStore *media.Store
	events     *publisher.EventPublisher
}

func NewPostHandler(postRepo repository.PostRepository, likeRepo repository.LikeRepository, mediaStore *media.Store, events *publisher.EventPublisher) *PostHandler {
	return &PostHandler{
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		mediaStore: mediaStore,
		events:     events,
	}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	filter := models.PostFilter{
		Ordering: r.URL.Query().Get("ordering"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	var err error
	if filter.OwnerID, err = queryUUID(r, "owner"); err != nil {
		writeError(w, err)
		return
	}
	if filter.LikedBy, err = queryUUID(r, "liked_by"); err != nil {
		writeError(w, err)
		return
	}
	if filter.FeedOf, err = queryUUID(r, "feed_of"); err != nil {
		writeError(w, err)
		return
	}

	posts, err := h.postRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	likeIDs, err := h.likeIDs(r, requester, posts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, serializer.Posts(posts, requester, likeIDs))
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.postView(r, requester, post)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	title, content, imageFilter, image, err := h.decodeCreate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	post := &models.Post{
		ID:          uuid.New(),
		OwnerID:     requester.ID,
		Title:       title,
		Content:     content,
		ImageFilter: imageFilter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if image != nil {
		post.Image = *image
	}
	if post.ImageFilter == "" {
		post.ImageFilter = "normal"
	}

	if err := h.postRepo.Create(r.Context(), post); err != nil {
		writeError(w, err)
		return
	}

	monitoring.PostsCreated.Inc()
	if h.events != nil {
		h.events.PublishPostCreated(events.PostCreatedEvent{
			PostID:    post.ID,
			OwnerID:   post.OwnerID,
			Title:     post.Title,
			CreatedAt: now,
		})
	}

	created, err := h.postRepo.GetByID(r.Context(), post.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.postView(r, requester, created)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, post.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	input, err := h.decodeUpdate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.postRepo.Update(r.Context(), postID, input); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.postRepo.GetByID(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.postView(r, requester, updated)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.RequesterFromContext(r.Context())

	postID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkOwner(requester, post.OwnerID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.postRepo.Delete(r.Context(), postID); err != nil {
		writeError(w, err)
		return
	}

	if h.events != nil {
		h.events.PublishPostDeleted(events.PostDeletedEvent{
			PostID:  post.ID,
			OwnerID: post.OwnerID,
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) decodeCreate(r *http.Request) (title, content, imageFilter string, image *string, err error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", "", "", nil, apperr.FieldError("body", "invalid multipart form")
		}
		// Fields are validated before the image is touched so a rejected
		// request never stores a file.
		title = r.FormValue("title")
		if strings.TrimSpace(title) == "" {
			return "", "", "", nil, apperr.FieldError("title", "this field is required")
		}
		image, err := imageUpload(r, h.mediaStore)
		if err != nil {
			return "", "", "", nil, err
		}
		return title, r.FormValue("content"), r.FormValue("image_filter"), image, nil
	}

	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		ImageFilter string `json:"image_filter"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return "", "", "", nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return "", "", "", nil, apperr.FieldError("title", "this field is required")
	}
	return req.Title, req.Content, req.ImageFilter, nil, nil
}

func (h *PostHandler) decodeUpdate(r *http.Request) (*models.UpdatePostInput, error) {
	input := &models.UpdatePostInput{}

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, apperr.FieldError("body", "invalid multipart form")
		}
		if values, ok := r.MultipartForm.Value["title"]; ok && len(values) > 0 {
			input.Title = &values[0]
		}
		if values, ok := r.MultipartForm.Value["content"]; ok && len(values) > 0 {
			input.Content = &values[0]
		}
		if values, ok := r.MultipartForm.Value["image_filter"]; ok && len(values) > 0 {
			input.ImageFilter = &values[0]
		}
		if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
			return nil, apperr.FieldError("title", "this field may not be blank")
		}

		image, err := imageUpload(r, h.mediaStore)
		if err != nil {
			return nil, err
		}
		input.Image = image
		return input, nil
	}

	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		ImageFilter *string `json:"image_filter"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.FieldError("title", "this field may not be blank")
	}
	input.Title = req.Title
	input.Content = req.Content
	input.ImageFilter = req.ImageFilter
	return input, nil
}

func (h *PostHandler) postView(r *http.Request, requester *models.Requester, post *models.PostRow) (models.PostView, error) {
	likeIDs, err := h.likeIDs(r, requester, []models.PostRow{*post})
	if err != nil {
		return models.PostView{}, err
	}

	var likeID *uuid.UUID
	if id, ok := likeIDs[post.ID]; ok {
		likeID = &id
	}

	return serializer.Post(post, requester, likeID), nil
}

// likeIDs resolves the requester's likes over the listed posts in one
// query; empty for anonymous requesters.
func (h *PostHandler) likeIDs(r *http.Request, requester *models.Requester, posts []models.PostRow) (map[uuid.UUID]uuid.UUID, error) {
	if requester == nil || len(posts) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	return h.likeRepo.LikeIDsForPosts(r.Context(), requester.ID, postIDs)
}
