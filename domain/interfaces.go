package domain

import "context"

// UserRepository defines user data access operations. Implementations must
// exclude soft-deleted rows by default.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID uint) error
	SoftDelete(ctx context.Context, userID uint) error
}

// FacilityRepository defines directory data access operations.
type FacilityRepository interface {
	Create(ctx context.Context, facility *Facility) error
	FindByID(ctx context.Context, category ManageCategory, id uint) (*Facility, error)
	List(ctx context.Context, filter FacilityFilter) ([]*Facility, int64, error)
	Update(ctx context.Context, facility *Facility) error
	SoftDelete(ctx context.Context, category ManageCategory, id uint) error
}

// ManageRepository defines management grant data access operations.
type ManageRepository interface {
	Create(ctx context.Context, grant *ManageGrant) error
	Exists(ctx context.Context, userID uint, category ManageCategory, entityID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*ManageGrant, error)
	Delete(ctx context.Context, id uint) error
	DeleteByEntity(ctx context.Context, category ManageCategory, entityID uint) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, user *User, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// AuthzService decides allow/deny for a validated credential. Both checks
// return ErrInsufficientRole on deny so rejections cannot leak whether a
// user or entity exists.
type AuthzService interface {
	RequireRole(claims *TokenClaims, min Role) error
	RequireOwnership(ctx context.Context, claims *TokenClaims, check OwnershipCheck) error
}

// FacilityService defines directory business logic.
type FacilityService interface {
	Get(ctx context.Context, category ManageCategory, id uint) (*Facility, error)
	List(ctx context.Context, filter FacilityFilter) ([]*Facility, int64, error)
	Create(ctx context.Context, facility *Facility) (*Facility, error)
	Update(ctx context.Context, facility *Facility) (*Facility, error)
	Delete(ctx context.Context, category ManageCategory, id uint) error
}

// ManageService defines grant administration logic.
type ManageService interface {
	Grant(ctx context.Context, userID uint, category ManageCategory, entityIDs []uint) ([]*ManageGrant, error)
	ListByUser(ctx context.Context, userID uint) ([]*ManageGrant, error)
	Revoke(ctx context.Context, grantID uint) error
}

// OTPService defines account verification code operations
type OTPService interface {
	Generate(ctx context.Context, phone string, userID uint) (*OTPRequest, error)
	Verify(ctx context.Context, phone, code string, userID uint) (bool, error)
	CanResend(ctx context.Context, phone string) (bool, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines credential issue/decode operations
type TokenService interface {
	GenerateAccessToken(userID uint, role Role, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role Role, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PlacesService fetches enrichment data from the places provider.
type PlacesService interface {
	Lookup(ctx context.Context, query string, byTitle bool) (*PlaceInfo, error)
}

// AuditLogger records security-relevant events for operators.
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}
