package handlers

import (
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-sentinel/db"
	"go-sentinel/types"
)

// SearchSubjects runs the police dashboard name search.
func SearchSubjects(c *gin.Context, firestoreClient *firestore.Client) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	subjects, err := db.SearchSubjects(c.Request.Context(), firestoreClient, query, 20)
	if err != nil {
		log.Printf("ERROR searching subjects for %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search subjects"})
		return
	}
	if subjects == nil {
		subjects = []types.Subject{}
	}

	c.JSON(http.StatusOK, subjects)
}

// UpsertSubject registers or refreshes a subject record.
func UpsertSubject(c *gin.Context, firestoreClient *firestore.Client) {
	var request struct {
		UserID string `json:"userId" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Phone  string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := types.Subject{ID: request.UserID, Name: request.Name, Phone: request.Phone}
	if err := db.UpsertSubject(c.Request.Context(), firestoreClient, subject); err != nil {
		log.Printf("ERROR upserting subject %s: %v", request.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
