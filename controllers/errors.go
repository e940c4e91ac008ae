package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const internalErrorMessage = "internal server error"

// respondServiceError turns an engine error into a response. Rejections keep
// their message; anything else is logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.KindConflict:
		utils.RespondError(c, http.StatusConflict, err)
	case services.KindNotFound:
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		_ = c.Error(err)
		utils.ErrorLogger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		utils.RespondMessage(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

// uintParam parses a positive numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
