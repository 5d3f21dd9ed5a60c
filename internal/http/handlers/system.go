package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	DB *sql.DB
}

func (h SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		RespondError(c, http.StatusInternalServerError, "database not connected", nil)
		return
	}
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		RespondError(c, http.StatusInternalServerError, "database ping failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK"})
}
