package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-sentinel/db"
	"go-sentinel/tracking"
	"go-sentinel/types"
)

// StoreLocation ingests one position sample from the moving client. The
// sample feeds the subject's tracker; relay to storage is best effort and
// never blocks this request.
func StoreLocation(c *gin.Context, trackers *tracking.Manager) {
	var request struct {
		UserID    string   `json:"userId" binding:"required"`
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := trackers.Deliver(request.UserID, tracking.Sample{
		Latitude:   *request.Latitude,
		Longitude:  *request.Longitude,
		CapturedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, tracking.ErrInvalidSubject) || errors.Is(err, tracking.ErrProviderUnavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR delivering sample for %s: %v", request.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetLocationHistory returns the subject's stored samples newest first, for
// the police history view.
func GetLocationHistory(c *gin.Context, firestoreClient *firestore.Client) {
	subjectID := c.Param("userId")

	history, err := db.GetLocationHistory(c.Request.Context(), firestoreClient, subjectID, 100)
	if err != nil {
		log.Printf("ERROR fetching history for %s: %v", subjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve location history"})
		return
	}
	if history == nil {
		history = []types.Position{}
	}

	c.JSON(http.StatusOK, history)
}

// CurrentLocation reads the subject's last accepted sample from the live
// tracker, without touching storage.
func CurrentLocation(c *gin.Context, trackers *tracking.Manager) {
	subjectID := c.Param("userId")

	pos, ok := trackers.Current(subjectID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No known position for subject"})
		return
	}
	c.JSON(http.StatusOK, pos)
}

// StopTracking tears down the subject's tracker. Idempotent.
func StopTracking(c *gin.Context, trackers *tracking.Manager) {
	trackers.Stop(c.Param("userId"))
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}
