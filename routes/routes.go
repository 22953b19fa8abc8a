package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vacancy-backend/config"
	"vacancy-backend/controllers"
	"vacancy-backend/services"
	"vacancy-backend/utils"
)

func SetupRouter(registry *services.Registry, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.RequestID())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", utils.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if allowsAll(allowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger(logger))

	roomController := controllers.RoomController{Rooms: registry.Rooms()}
	customerController := controllers.CustomerController{Customers: registry.Customers()}
	dashboardController := controllers.DashboardController{Registry: registry}

	rooms := r.Group("/Rooms")
	{
		rooms.GET("", roomController.GetRooms)
		rooms.POST("", roomController.CreateRoom)
		rooms.GET("/:id", roomController.GetRoom)
		rooms.PUT("/:id", roomController.UpdateRoom)
		rooms.DELETE("/:id", roomController.DeleteRoom)
		rooms.GET("/:id/Customers", customerController.GetRoomCustomers)
	}

	customers := r.Group("/Customers")
	{
		customers.GET("", customerController.GetCustomers)
		customers.POST("", customerController.CreateCustomer)
		customers.GET("/search/:name", customerController.SearchCustomers)
		customers.GET("/:id", customerController.GetCustomer)
		customers.PUT("/:id", customerController.UpdateCustomer)
		customers.DELETE("/:id", customerController.DeleteCustomer)
	}

	r.GET("/stats", dashboardController.GetStats)
	r.POST("/backup", dashboardController.CreateBackup)
	r.GET("/health", dashboardController.GetHealth)

	return r
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
