package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"blackbird-backend/services"
	"blackbird-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps the typed business errors to status codes;
// anything else is a 500.
func respondServiceError(c *gin.Context, err error) {
	var validationErr services.ValidationError
	if errors.As(err, &validationErr) {
		utils.RespondWithError(c, http.StatusBadRequest, validationErr.Message)
		return
	}
	var notFoundErr services.NotFoundError
	if errors.As(err, &notFoundErr) {
		utils.RespondWithError(c, http.StatusNotFound, notFoundErr.Message)
		return
	}
	var conflictErr services.ConflictError
	if errors.As(err, &conflictErr) {
		utils.RespondWithError(c, http.StatusConflict, conflictErr.Message)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

// callerContext pulls the resolved auth context (set by the middleware) for
// handlers that scope by role/branch.
func callerContext(c *gin.Context) (userID uuid.UUID, role string, branchID string, ok bool) {
	rawUser, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Caller identity not found in context")
		return uuid.Nil, "", "", false
	}
	userStr, _ := rawUser.(string)
	userID, err := uuid.Parse(userStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid caller identity")
		return uuid.Nil, "", "", false
	}

	rawRole, _ := c.Get("role")
	role, _ = rawRole.(string)
	rawBranch, _ := c.Get("branchId")
	branchID, _ = rawBranch.(string)
	return userID, role, branchID, true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return utils.ClampPagination(page, limit)
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
