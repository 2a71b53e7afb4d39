package handlers

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"net/http"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=student cook"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Class    string `json:"class" validate:"max=16"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateRequest struct {
	Allergies   []string `json:"allergies"`
	Preferences []string `json:"preferences"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleStudent
	}

	user, err := h.svc.Register(r.Context(), canteen.Registration{
		Username: req.Username,
		Password: req.Password,
		Role:     role,
		FullName: req.FullName,
		Email:    req.Email,
		Class:    req.Class,
	})
	if err != nil {
		h.fail(w, r, err, "failed to register user")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err, "failed to log in")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		h.fail(w, r, err, "failed to issue token")
		return
	}
	writeJSON(w, status, authResponse{User: user, Token: token})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Profile(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), actor, req.Allergies, req.Preferences)
	if err != nil {
		h.fail(w, r, err, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.Payments(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err, "failed to get payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
