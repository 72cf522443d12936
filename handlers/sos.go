package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sentinel/notify"
	"go-sentinel/tracking"
	"go-sentinel/types"
)

// SOS fires a one-shot lost alert independent of any emergency session. The
// send result is surfaced so the UI can tell "help is coming" apart from
// "the alert did not go out".
func SOS(c *gin.Context, notifier notify.Notifier, trackers *tracking.Manager) {
	var request struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := types.AlertPayload{
		SubjectID: request.UserID,
		Status:    types.AlertStatusLost,
	}
	if pos, ok := trackers.Current(request.UserID); ok {
		alert.LastKnownPosition = &pos
	}

	if err := notifier.NotifyLost(c.Request.Context(), alert); err != nil {
		log.Printf("ERROR sending SOS for %s: %v", request.UserID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "SOS alert could not be delivered, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
