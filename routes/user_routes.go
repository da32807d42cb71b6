package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mercic21/travelmate/config/db"
	"github.com/mercic21/travelmate/controllers/user_controller"
	"github.com/mercic21/travelmate/middlewares/auth"
)

// RegisterUserRoutes wires registration, login and profile endpoints.
func RegisterUserRoutes(router *gin.Engine) {
	userController := user_controller.NewUserController(db.DB)

	group := router.Group("/api/auth")
	{
		group.POST("/register", userController.Register)
		group.POST("/login", userController.Login)
		group.GET("/profile", auth.AuthMiddleware(), userController.Profile)
	}
}
