package httpx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/http/handlers"
	"github.com/you/meddirsvc/internal/http/middleware"
)

// categoryRoutes maps URL segments to grant categories.
var categoryRoutes = map[string]domain.ManageCategory{
	"/hospitals":  domain.CategoryHospital,
	"/clinics":    domain.CategoryClinic,
	"/pharmacies": domain.CategoryPharmacy,
}

// BuildRouter wires every route through the single gate. Reads are public
// (with soft identification); every mutating route is gated.
func BuildRouter(
	ah *handlers.AuthHandlers,
	uh *handlers.UserHandlers,
	fh *handlers.FacilityHandlers,
	mh *handlers.ManageHandlers,
	gate *middleware.Gate,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/otp/send", ah.SendOTP)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.GET("/me", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleUser}), ah.Me)
	auth.POST("/logout", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleUser}), ah.Logout)

	r.GET("/google-infos", fh.GoogleInfos)

	for path, category := range categoryRoutes {
		g := r.Group(path)
		g.GET("", gate.Identify(), fh.List(category))
		g.GET("/:id", gate.Identify(), fh.Get(category))
		g.POST("", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleAdmin}), fh.Create(category))
		g.PATCH("/:id", gate.Authorize(middleware.GateOptions{
			MinRole:   domain.RoleManager,
			Ownership: &middleware.OwnershipSpec{Category: category, Param: "id"},
		}), fh.Update(category))
		g.DELETE("/:id", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleAdmin}), fh.Delete(category))
	}

	users := r.Group("/users", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleUser}))
	users.GET("/:id", uh.Get)
	users.PATCH("/:id", uh.Update)

	adm := r.Group("/admin", gate.Authorize(middleware.GateOptions{MinRole: domain.RoleAdmin}))
	adm.POST("/manages", mh.Create)
	adm.GET("/manages", mh.ListByUser)
	adm.DELETE("/manages/:id", mh.Delete)

	return r
}
