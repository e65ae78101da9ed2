package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/opengive/donations-backend/cmd/docs"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/middleware"
	"github.com/opengive/donations-backend/pkg/config"
)

// ServiceContainer bundles the service interfaces the handlers depend on.
type ServiceContainer struct {
	Donation    portssvc.DonationSvcFacade
	Beneficiary portssvc.BeneficiarySvcFacade
	Currency    portssvc.CurrencySvcFacade
	User        portssvc.UserSvcFacade
	Token       portssvc.TokenSvcFacade
}

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *ServiceContainer) {

	// Health check route
	r.GET("/health", getHome)

	// API v1 group. The identity middleware parses the bearer token when one
	// is present; routes that require an identity enforce it themselves, so
	// the public auth routes can live in the same group.
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware(cfg.JWTSecret))

	RegisterAuthRoutes(v1, services.User, services.Token)
	RegisterDonationRoutes(v1, services.Donation)
	RegisterBeneficiaryRoutes(v1, services.Beneficiary)
	RegisterCurrencyRoutes(v1, services.Currency)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
