package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/repository"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "decor-manager", 5)
	identity := domain.Identity{ID: "2", Role: domain.RoleManager}

	token, exp, err := tm.GenerateToken(identity, "client-1")
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.IdentityID)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.Equal(t, "client-1", claims.ClientID)

	other := NewTokenManager("other-secret", "decor-manager", 5)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.Error(t, ComparePassword(hash, "password124"))
}

func newProtectedApp(t *testing.T, dir repository.Directory, tm *TokenManager, perm string) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm, dir)
	app.Get("/reports", mw.Handle, RequirePermission(perm), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.Identity.Name)
	})
	return app
}

func TestMiddlewareAndPermissionGate(t *testing.T) {
	dir := repository.NewMemoryDirectory(append(repository.DemoIdentities(),
		domain.Identity{ID: "9", Name: "Dormant", Role: domain.RoleManager, IsActive: false}))
	tm := NewTokenManager("secret", "decor-manager", 5)
	app := newProtectedApp(t, dir, tm, domain.PermViewReports)

	call := func(identity domain.Identity, header string) int {
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		if header == "" {
			token, _, err := tm.GenerateToken(identity, "")
			require.NoError(t, err)
			header = "Bearer " + token
		}
		if header != "none" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, call(domain.Identity{ID: "2"}, ""))
	assert.Equal(t, http.StatusForbidden, call(domain.Identity{ID: "3"}, ""))
	assert.Equal(t, http.StatusUnauthorized, call(domain.Identity{ID: "9"}, ""))
	assert.Equal(t, http.StatusUnauthorized, call(domain.Identity{ID: "404"}, ""))
	assert.Equal(t, http.StatusUnauthorized, call(domain.Identity{}, "none"))
	assert.Equal(t, http.StatusUnauthorized, call(domain.Identity{}, "Basic abc"))
}
