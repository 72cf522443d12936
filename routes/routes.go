package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-sentinel/emergency"
	"go-sentinel/handlers"
	"go-sentinel/notify"
	"go-sentinel/route"
	"go-sentinel/tracking"
)

func SetupRouter(
	firestoreClient *firestore.Client,
	trackers *tracking.Manager,
	emergencies *emergency.Manager,
	notifier notify.Notifier,
	planner *route.Planner,
	routeStore *route.Store,
) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Go Sentinel!",
		})
	})

	// api routes
	api := r.Group("/api")
	{
		location := api.Group("/location")
		{
			location.POST("/store", func(c *gin.Context) {
				handlers.StoreLocation(c, trackers)
			})
			location.GET("/get/:userId", func(c *gin.Context) {
				handlers.GetLocationHistory(c, firestoreClient)
			})
			location.GET("/current/:userId", func(c *gin.Context) {
				handlers.CurrentLocation(c, trackers)
			})
			location.DELETE("/track/:userId", func(c *gin.Context) {
				handlers.StopTracking(c, trackers)
			})
		}

		api.POST("/sos", func(c *gin.Context) {
			handlers.SOS(c, notifier, trackers)
		})

		em := api.Group("/emergency")
		{
			em.POST("/raise", func(c *gin.Context) {
				handlers.RaiseEmergency(c, emergencies, routeStore)
			})
			em.GET("/:userId", func(c *gin.Context) {
				handlers.EmergencyStatus(c, emergencies)
			})
			em.POST("/:userId/notify", func(c *gin.Context) {
				handlers.NotifyFamily(c, emergencies)
			})
			em.POST("/:userId/false-alarm", func(c *gin.Context) {
				handlers.FalseAlarm(c, emergencies)
			})
		}

		api.POST("/route", func(c *gin.Context) {
			handlers.GenerateRoute(c, planner, routeStore)
		})

		subjects := api.Group("/subjects")
		{
			subjects.GET("/search", func(c *gin.Context) {
				handlers.SearchSubjects(c, firestoreClient)
			})
			subjects.POST("", func(c *gin.Context) {
				handlers.UpsertSubject(c, firestoreClient)
			})
		}
	}

	return r
}
