package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sentinel/emergency"
	"go-sentinel/route"
)

// RaiseEmergency starts the connection-lost countdown for a subject. The
// subject's active route is snapshotted into the session at this moment.
func RaiseEmergency(c *gin.Context, emergencies *emergency.Manager, routes *route.Store) {
	var request struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, _ := routes.Get(request.UserID)
	session, err := emergencies.Raise(request.UserID, snapshot)
	if err != nil {
		if errors.Is(err, emergency.ErrSessionExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session.Status())
}

// EmergencyStatus reports the subject's session state and countdown.
func EmergencyStatus(c *gin.Context, emergencies *emergency.Manager) {
	session, ok := emergencies.Get(c.Param("userId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active emergency for subject"})
		return
	}
	c.JSON(http.StatusOK, session.Status())
}

// NotifyFamily triggers the escalation immediately. Re-invoking once the
// family is notified is a no-op; a failed send keeps the session active and
// tells the caller to retry.
func NotifyFamily(c *gin.Context, emergencies *emergency.Manager) {
	subjectID := c.Param("userId")
	session, ok := emergencies.Get(subjectID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active emergency for subject"})
		return
	}

	if err := session.NotifyFamily(c.Request.Context()); err != nil {
		if errors.Is(err, emergency.ErrNotifyInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR notifying family for %s: %v", subjectID, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Family notification could not be delivered, please retry",
		})
		return
	}

	c.JSON(http.StatusOK, session.Status())
}

// FalseAlarm resolves the emergency without notifying anyone. The explicit
// confirm flag stands in for the confirmation dialog of the original UI.
func FalseAlarm(c *gin.Context, emergencies *emergency.Manager) {
	var request struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "False alarm requires confirmation"})
		return
	}

	subjectID := c.Param("userId")
	session, ok := emergencies.Get(subjectID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active emergency for subject"})
		return
	}

	if err := session.FalseAlarm(); err != nil {
		if errors.Is(err, emergency.ErrAlreadyNotified) {
			c.JSON(http.StatusConflict, gin.H{"error": "Alert already sent, cannot retract"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}
