package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"secure-auth-api/common"
	"secure-auth-api/model"
	"secure-auth-api/service"

	"github.com/google/uuid"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an active account with the non-privileged role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "New account"
// @Success      201      {object}  model.User
// @Failure      400      {object}  common.AppError
// @Failure      500      {object}  common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, err := h.userService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return common.NewAppError(http.StatusBadRequest, "User already exists", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Error creating user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateUserRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Param        id       path  string                       true  "User id"
// @Param        request  body  model.UpdateUserRoleRequest  true  "New role"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user id", nil)
	}

	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.UpdateUserRole(userID, req.Role); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not update role", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// UpdateUserStatus godoc
// @Summary      Enable or disable a user account
// @Description  A disabled account cannot log in; its live sessions are revoked the next time one is presented.
// @Tags         admin
// @Accept       json
// @Param        id       path  string                         true  "User id"
// @Param        request  body  model.UpdateUserStatusRequest  true  "New status"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/admin/users/{id}/status [put]
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user id", nil)
	}

	var req model.UpdateUserStatusRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.UpdateUserStatus(userID, *req.IsActive); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not update status", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
