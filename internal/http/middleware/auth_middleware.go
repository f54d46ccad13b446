package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/meddirsvc/domain"
)

// Context keys set by the gate for downstream handlers.
const (
	CtxClaims    = "claims"
	CtxUserID    = "user_id"
	CtxUserRole  = "user_role"
	CtxSessionID = "session_id"
)

// Stable machine-readable rejection reasons. Role-deny and ownership-deny
// share one reason so rejections cannot reveal whether an entity exists.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonInvalidCredential = "invalid_credential"
	ReasonExpired           = "expired"
	ReasonForbidden         = "insufficient_permissions"
	ReasonInternal          = "internal"
)

// OwnershipSpec tells the gate which route param carries the entity id and
// which grant category it must be checked against.
type OwnershipSpec struct {
	Category domain.ManageCategory
	Param    string
}

// GateOptions configures one route's authorization requirements.
type GateOptions struct {
	MinRole   domain.Role
	Ownership *OwnershipSpec
}

// Gate is the single enforcement path in front of every protected route. It
// sequences credential extraction, validity checking and role/ownership
// authorization, and maps each outcome to one transport response.
type Gate struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
	authzSvc    domain.AuthzService
	audit       domain.AuditLogger
	logger      *zap.Logger
}

// NewGate creates the request gate
func NewGate(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository, authzSvc domain.AuthzService, audit domain.AuditLogger, logger *zap.Logger) *Gate {
	return &Gate{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
		authzSvc:    authzSvc,
		audit:       audit,
		logger:      logger,
	}
}

// Authorize returns middleware enforcing the given requirements.
func (g *Gate) Authorize(opts GateOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.authenticate(c)
		if !ok {
			return
		}

		if err := g.authzSvc.RequireRole(claims, opts.MinRole); err != nil {
			g.deny(c, claims, err)
			return
		}

		if opts.Ownership != nil {
			entityID, err := strconv.ParseUint(c.Param(opts.Ownership.Param), 10, 64)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
				return
			}

			check := domain.OwnershipCheck{
				Category: opts.Ownership.Category,
				EntityID: uint(entityID),
			}
			if err := g.authzSvc.RequireOwnership(c.Request.Context(), claims, check); err != nil {
				g.deny(c, claims, err)
				return
			}
		}

		g.setContext(c, claims)
		c.Next()
	}
}

// Identify returns middleware that populates claims when a valid, unexpired
// credential is presented but never rejects. Public reads use it so partner
// pages can personalize while staying anonymous-friendly.
func (g *Gate) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := g.tokenSvc.ValidateAccessToken(raw)
		if err != nil {
			c.Next()
			return
		}

		g.setContext(c, claims)
		c.Next()
	}
}

// authenticate runs the validity-check phase: absent, malformed and expired
// credentials each terminate the request with 401 and a stable reason.
func (g *Gate) authenticate(c *gin.Context) (*domain.TokenClaims, bool) {
	if c.GetHeader("Authorization") == "" {
		g.reject(c, http.StatusUnauthorized, "Unauthorized", ReasonMissingCredential)
		return nil, false
	}

	raw, ok := bearerToken(c)
	if !ok {
		g.reject(c, http.StatusUnauthorized, "Invalid token", ReasonInvalidCredential)
		return nil, false
	}

	claims, err := g.tokenSvc.ValidateAccessToken(raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			g.reject(c, http.StatusUnauthorized, "Session expired, please log in again", ReasonExpired)
		case errors.Is(err, domain.ErrTokenMalformed):
			// Malformed credentials may indicate tampering; log distinctly.
			g.logger.Warn("malformed credential presented",
				zap.String("path", c.FullPath()),
				zap.String("remote", c.ClientIP()))
			g.reject(c, http.StatusUnauthorized, "Invalid token", ReasonInvalidCredential)
		default:
			g.reject(c, http.StatusUnauthorized, "Invalid token", ReasonInvalidCredential)
		}
		return nil, false
	}

	// A credential that references a dead session is logically destroyed.
	if claims.SessionID != "" {
		session, err := g.sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
				g.reject(c, http.StatusUnauthorized, "Session expired, please log in again", ReasonExpired)
				return nil, false
			}
			g.fail(c, err)
			return nil, false
		}
		if session.UserID != claims.UserID {
			g.reject(c, http.StatusUnauthorized, "Invalid token", ReasonInvalidCredential)
			return nil, false
		}
	}

	return claims, true
}

func (g *Gate) deny(c *gin.Context, claims *domain.TokenClaims, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientRole), errors.Is(err, domain.ErrUnauthorized):
		var userID uint
		if claims != nil {
			userID = claims.UserID
		}
		g.audit.LogEvent(c.Request.Context(),
			domain.NewAuditEvent(domain.AccessDeniedEvent, userID).
				WithResource(c.FullPath()).
				WithReason(ReasonForbidden))
		g.reject(c, http.StatusForbidden, "Insufficient permissions", ReasonForbidden)
	default:
		g.fail(c, err)
	}
}

// fail maps a downstream failure to a generic server error; the cause is
// logged for operators, never leaked to the client.
func (g *Gate) fail(c *gin.Context, err error) {
	g.logger.Error("authorization check failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	g.reject(c, http.StatusInternalServerError, "Server error", ReasonInternal)
}

func (g *Gate) reject(c *gin.Context, status int, message, reason string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "reason": reason})
}

func (g *Gate) setContext(c *gin.Context, claims *domain.TokenClaims) {
	c.Set(CtxClaims, claims)
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxUserRole, claims.Role)
	if claims.SessionID != "" {
		c.Set(CtxSessionID, claims.SessionID)
	}
}

// ClaimsFromContext returns the validated claims the gate stored, or nil for
// anonymous requests.
func ClaimsFromContext(c *gin.Context) *domain.TokenClaims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*domain.TokenClaims)
	return claims
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
