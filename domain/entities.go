package domain

import "time"

// User represents an account in the directory
type User struct {
	ID           uint
	FirstName    string
	LastName     string
	Gender       string
	Email        string
	Phone        string
	PasswordHash string `gorm:"column:password"`
	Role         Role
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthRequest represents authentication credentials
type AuthRequest struct {
	Email    string
	Password string
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// TokenClaims is the decoded form of a credential. A nil *TokenClaims means
// the caller is unauthenticated (Guest).
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Session represents a login session; deleting it logically destroys every
// credential that references it.
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Facility is a directory entry: a hospital, clinic or pharmacy.
type Facility struct {
	ID            uint
	Category      ManageCategory
	Title         string
	County        string
	District      string
	Address       string
	Phone         string
	Excerpt       string
	Keywords      string
	Partner       bool
	GooglePlaceID string
	Lat           float64
	Lng           float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FacilityFilter narrows facility listings.
type FacilityFilter struct {
	Category ManageCategory
	County   string
	District string
	Keyword  string
	Partner  *bool
	Page     int
	Limit    int
}

// ManageGrant delegates write permission over one facility to one user,
// independent of the user's global role.
type ManageGrant struct {
	ID        uint
	UserID    uint
	Category  ManageCategory
	EntityID  uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnershipCheck names the facility a request wants to mutate.
type OwnershipCheck struct {
	Category ManageCategory
	EntityID uint
}

// OTPRequest represents an account verification code in flight
type OTPRequest struct {
	Phone     string
	Code      string
	UserID    uint
	ExpiresAt time.Time
	Attempts  int
}

// PlaceInfo is the enrichment payload from the places provider. A zero value
// (business status aside) stands in when the provider fails.
type PlaceInfo struct {
	PlaceID            string   `json:"place_id"`
	Name               string   `json:"name"`
	BusinessStatus     string   `json:"business_status"`
	FormattedAddress   string   `json:"formatted_address"`
	FormattedPhone     string   `json:"formatted_phone_number"`
	InternationalPhone string   `json:"international_phone_number"`
	Lat                float64  `json:"lat"`
	Lng                float64  `json:"lng"`
	OpeningHours       []string `json:"opening_hours"`
	Rating             float32  `json:"rating"`
	UserRatingsTotal   int      `json:"user_ratings_total"`
	Website            string   `json:"website"`
	URL                string   `json:"url"`
	Types              []string `json:"types"`
}
