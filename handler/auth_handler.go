package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"moments/apperr"
	"moments/events"
	"moments/middleware"
	"moments/model"
	"moments/monitoring"
	"moments/pkg/jwt"
	"moments/publisher"
	"moments/repository"
)

type AuthHandler struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	expiry     time.Duration
	events     *publisher.EventPublisher
}

func NewAuthHandler(userRepo repository.UserRepository, jwtManager *jwt.Manager, expiry time.Duration, events *publisher.EventPublisher) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		expiry:     expiry,
		events:     events,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates the user and their profile in one step. The profile is
// an explicit part of the registration flow, not a side effect.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := validateRegistration(&req); err != nil {
		writeError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &models.Profile{
		ID:        uuid.New(),
		OwnerID:   user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.userRepo.Register(r.Context(), user, profile); err != nil {
		writeError(w, err)
		return
	}

	monitoring.RegisterSuccess.Inc()
	if h.events != nil {
		h.events.PublishUserRegistered(events.UserRegisteredEvent{
			UserID:    user.ID,
			Username:  user.Username,
			ProfileID: profile.ID,
			CreatedAt: now,
		})
	}

	token, err := h.jwtManager.Generate(user.ID.String(), user.Username, h.expiry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		monitoring.LoginFailure.Inc()
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		monitoring.LoginFailure.Inc()
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String(), user.Username, h.expiry)
	if err != nil {
		writeError(w, err)
		return
	}

	monitoring.LoginSuccess.Inc()
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	requester, err := requireRequester(middleware.RequesterFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), requester.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func validateRegistration(req *registerRequest) error {
	ve := apperr.NewValidationError()
	if strings.TrimSpace(req.Username) == "" {
		ve.Add("username", "this field is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		ve.Add("email", "this field is required")
	} else if !strings.Contains(req.Email, "@") {
		ve.Add("email", "enter a valid email address")
	}
	if len(req.Password) < 8 {
		ve.Add("password", "password must be at least 8 characters")
	}
	if ve.Empty() {
		return nil
	}
	return ve
}
