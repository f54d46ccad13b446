package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/config"
	"github.com/you/meddirsvc/internal/infrastructure/auth"
	"github.com/you/meddirsvc/internal/infrastructure/database"
	"github.com/you/meddirsvc/internal/infrastructure/logging"
	"github.com/you/meddirsvc/internal/infrastructure/notifications"
	"github.com/you/meddirsvc/internal/infrastructure/places"
	"github.com/you/meddirsvc/internal/infrastructure/repositories"
	"github.com/you/meddirsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo     domain.UserRepository
	FacilityRepo domain.FacilityRepository
	ManageRepo   domain.ManageRepository
	SessionRepo  domain.SessionRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	PlacesSvc       domain.PlacesService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	AuthzSvc        domain.AuthzService
	FacilitySvc     domain.FacilityService
	ManageSvc       domain.ManageService
	Audit           domain.AuditLogger
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.FacilityRepo = repositories.NewFacilityRepository(c.DB)
	c.ManageRepo = repositories.NewManageRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.RefreshTTL)
}

func (c *Container) initServices() error {
	c.Audit = logging.NewAuditLogger(c.Logger)
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Logger,
	)

	placesSvc, err := places.NewGoogleService(c.Config.GoogleAPIKey, c.Logger)
	if err != nil {
		return err
	}
	c.PlacesSvc = placesSvc

	otpConfig := services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		ResendWindow: c.Config.OTP_ResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.RedisClient, otpConfig)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.Audit,
		c.Config.RefreshTTL,
		c.Config.AccessTTL,
	)
	c.AuthzSvc = services.NewAuthzService(c.ManageRepo)
	c.FacilitySvc = services.NewFacilityService(c.FacilityRepo, c.ManageRepo)
	c.ManageSvc = services.NewManageService(c.ManageRepo, c.UserRepo, c.FacilityRepo)

	return nil
}
