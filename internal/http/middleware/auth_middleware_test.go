package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/infrastructure/auth"
	"github.com/you/meddirsvc/internal/mocks"
	"github.com/you/meddirsvc/internal/services"
)

const testSecret = "test-secret-key-for-gate"

type gateFixture struct {
	router      *gin.Engine
	tokenSvc    domain.TokenService
	sessionRepo *mocks.MockSessionRepository
	manageRepo  *mocks.MockManageRepository
	audit       *mocks.MockAuditLogger
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gateFixture{
		tokenSvc:    auth.NewJWTService(testSecret, "meddirsvc-test", 15*time.Minute, time.Hour),
		sessionRepo: mocks.NewMockSessionRepository(),
		manageRepo:  mocks.NewMockManageRepository(),
		audit:       mocks.NewMockAuditLogger(),
	}

	gate := NewGate(f.tokenSvc, f.sessionRepo, services.NewAuthzService(f.manageRepo), f.audit, zap.NewNop())

	f.router = gin.New()
	f.router.GET("/me", gate.Authorize(GateOptions{MinRole: domain.RoleUser}), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	f.router.PATCH("/hospitals/:id",
		gate.Authorize(GateOptions{
			MinRole:   domain.RoleManager,
			Ownership: &OwnershipSpec{Category: domain.CategoryHospital, Param: "id"},
		}),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "updated"})
		})
	f.router.GET("/hospitals", gate.Identify(), func(c *gin.Context) {
		if claims := ClaimsFromContext(c); claims != nil {
			c.JSON(http.StatusOK, gin.H{"viewer": claims.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"viewer": nil})
	})

	// Sessions resolve to the token's user unless a test overrides this.
	f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	return f
}

func (f *gateFixture) token(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := f.tokenSvc.GenerateAccessToken(42, role, "sess-1")
	require.NoError(t, err)
	return token
}

func (f *gateFixture) do(method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeReason(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	reason, _ := body["reason"].(string)
	return reason
}

func TestGate_Authenticate(t *testing.T) {
	tests := []struct {
		name           string
		bearer         func(f *gateFixture, t *testing.T) string
		expectedStatus int
		expectedReason string
	}{
		{
			name:           "no credential",
			bearer:         func(f *gateFixture, t *testing.T) string { return "" },
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonMissingCredential,
		},
		{
			name:           "wrong scheme",
			bearer:         func(f *gateFixture, t *testing.T) string { return "Basic dXNlcjpwdw==" },
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonInvalidCredential,
		},
		{
			name:           "garbage token",
			bearer:         func(f *gateFixture, t *testing.T) string { return "Bearer not.a.token" },
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonInvalidCredential,
		},
		{
			name: "expired token",
			bearer: func(f *gateFixture, t *testing.T) string {
				expired := auth.NewJWTService(testSecret, "meddirsvc-test", -time.Minute, -time.Minute)
				token, err := expired.GenerateAccessToken(42, domain.RoleUser, "sess-1")
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonExpired,
		},
		{
			name: "expired trumps bad signature",
			bearer: func(f *gateFixture, t *testing.T) string {
				other := auth.NewJWTService("some-other-secret", "meddirsvc-test", -time.Minute, -time.Minute)
				token, err := other.GenerateAccessToken(42, domain.RoleUser, "sess-1")
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonExpired,
		},
		{
			name: "wrong signature",
			bearer: func(f *gateFixture, t *testing.T) string {
				other := auth.NewJWTService("some-other-secret", "meddirsvc-test", 15*time.Minute, time.Hour)
				token, err := other.GenerateAccessToken(42, domain.RoleUser, "sess-1")
				require.NoError(t, err)
				return "Bearer " + token
			},
			expectedStatus: http.StatusUnauthorized,
			expectedReason: ReasonInvalidCredential,
		},
		{
			name: "valid credential",
			bearer: func(f *gateFixture, t *testing.T) string {
				return "Bearer " + f.token(t, domain.RoleUser)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			w := f.do(http.MethodGet, "/me", tt.bearer(f, t))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedReason != "" {
				assert.Equal(t, tt.expectedReason, decodeReason(t, w))
			}
		})
	}
}

func TestGate_DeadSession(t *testing.T) {
	f := newGateFixture(t)
	f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return nil, domain.ErrSessionNotFound
	}

	w := f.do(http.MethodGet, "/me", "Bearer "+f.token(t, domain.RoleUser))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ReasonExpired, decodeReason(t, w))
}

func TestGate_SessionUserMismatch(t *testing.T) {
	f := newGateFixture(t)
	f.sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, UserID: 99, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := f.do(http.MethodGet, "/me", "Bearer "+f.token(t, domain.RoleUser))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, ReasonInvalidCredential, decodeReason(t, w))
}

func TestGate_RoleAndOwnership(t *testing.T) {
	tests := []struct {
		name           string
		role           domain.Role
		granted        bool
		expectedStatus int
	}{
		{"user below minimum role", domain.RoleUser, true, http.StatusForbidden},
		{"manager with grant", domain.RoleManager, true, http.StatusOK},
		{"manager without grant", domain.RoleManager, false, http.StatusForbidden},
		{"admin without grant", domain.RoleAdmin, false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			f.manageRepo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
				return tt.granted, nil
			}

			w := f.do(http.MethodPatch, "/hospitals/7", "Bearer "+f.token(t, tt.role))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Equal(t, ReasonForbidden, decodeReason(t, w))
			}
		})
	}
}

// Role denials and ownership denials must be byte-identical so a rejection
// cannot reveal whether the entity exists or who manages it.
func TestGate_DenialsAreIndistinguishable(t *testing.T) {
	f := newGateFixture(t)
	f.manageRepo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
		return false, nil
	}

	roleDeny := f.do(http.MethodPatch, "/hospitals/7", "Bearer "+f.token(t, domain.RoleUser))
	ownershipDeny := f.do(http.MethodPatch, "/hospitals/7", "Bearer "+f.token(t, domain.RoleManager))

	require.Equal(t, http.StatusForbidden, roleDeny.Code)
	require.Equal(t, http.StatusForbidden, ownershipDeny.Code)
	assert.Equal(t, roleDeny.Body.String(), ownershipDeny.Body.String())
}

func TestGate_DenialIsAudited(t *testing.T) {
	f := newGateFixture(t)

	w := f.do(http.MethodPatch, "/hospitals/7", "Bearer "+f.token(t, domain.RoleUser))

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Len(t, f.audit.Events, 1)
	assert.Equal(t, domain.AccessDeniedEvent, f.audit.Events[0].EventType)
	assert.Equal(t, uint(42), f.audit.Events[0].UserID)
}

func TestGate_StoreFailure(t *testing.T) {
	f := newGateFixture(t)
	f.manageRepo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
		return false, errors.New("connection reset")
	}

	w := f.do(http.MethodPatch, "/hospitals/7", "Bearer "+f.token(t, domain.RoleManager))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ReasonInternal, decodeReason(t, w))
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestGate_BadEntityID(t *testing.T) {
	f := newGateFixture(t)

	w := f.do(http.MethodPatch, "/hospitals/abc", "Bearer "+f.token(t, domain.RoleManager))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGate_Identify(t *testing.T) {
	f := newGateFixture(t)

	t.Run("anonymous passes", func(t *testing.T) {
		w := f.do(http.MethodGet, "/hospitals", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer":null`)
	})

	t.Run("bad credential passes anonymously", func(t *testing.T) {
		w := f.do(http.MethodGet, "/hospitals", "Bearer not.a.token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer":null`)
	})

	t.Run("valid credential identifies", func(t *testing.T) {
		w := f.do(http.MethodGet, "/hospitals", "Bearer "+f.token(t, domain.RoleUser))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viewer":42`)
	})
}
