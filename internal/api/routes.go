package api

import (
	"dypcet/linuxsaga-backend/internal/service"
	"dypcet/linuxsaga-backend/internal/upload"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the registration endpoints onto the Gin engine.
func SetupRoutes(
	router *gin.Engine,
	corsOrigins []string,
	registrationService service.RegistrationService,
	transientStore *upload.Store,
) {
	registrationHandler := NewRegistrationHandler(registrationService, transientStore)

	router.Use(CORSMiddleware(corsOrigins))

	router.GET("/", registrationHandler.Live)
	router.POST("/register", registrationHandler.Register)
}
