package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollportal/internal/app/models/dto"
	"github.com/yigit/enrollportal/internal/middleware"
	"github.com/yigit/enrollportal/internal/pkg/apperrors"
)

// parseIDParam reads a positive int64 path parameter, answering 400 when it is malformed
func parseIDParam(ctx *gin.Context, paramName, message string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, message))
		return 0, false
	}
	return id, true
}

// requireUserID returns the authenticated user id, answering 401 when the guard did not run
func requireUserID(ctx *gin.Context) (int64, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, apperrors.MsgAuthenticate))
		return 0, false
	}
	return user.ID, true
}
