package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sentinel/route"
)

// GenerateRoute plans a route between two place names and remembers it as
// the subject's active route for a later emergency snapshot.
func GenerateRoute(c *gin.Context, planner *route.Planner, routes *route.Store) {
	var request struct {
		UserID        string `json:"userId"`
		From          string `json:"from" binding:"required"`
		To            string `json:"to" binding:"required"`
		TransportMode string `json:"transportMode" binding:"required,oneof=car bus train walk bike"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := planner.GenerateRoute(c.Request.Context(), request.From, request.To, request.TransportMode)
	if request.UserID != "" {
		routes.Set(request.UserID, summary)
	}

	c.JSON(http.StatusOK, summary)
}
