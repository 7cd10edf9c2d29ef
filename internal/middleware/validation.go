package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollportal/internal/app/models/dto"
)

// MsgInvalidRequestBody is returned when the JSON body cannot be decoded
const MsgInvalidRequestBody = "Invalid request body"

// BindJSON decodes the request body into obj. On failure it writes a 400 and returns false.
// Field rules are enforced by the services, not by binding tags.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Invalid request payload")
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeInvalidRequest, MsgInvalidRequestBody))
		return false
	}
	return true
}
