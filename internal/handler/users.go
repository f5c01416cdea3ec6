package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) usersMe(c *gin.Context) {
	user := h.getUserFromRequest(c)

	c.JSON(http.StatusOK, *user)
}
