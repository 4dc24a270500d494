package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/apperr"
	"github.com/iliyamo/repair-shop/internal/authz"
	"github.com/iliyamo/repair-shop/internal/model"
)

type stubVerifier map[string]model.User

func (s stubVerifier) VerifyAccessToken(ctx context.Context, raw string) (*model.User, bool) {
	u, ok := s[raw]
	if !ok {
		return nil, false
	}
	return &u, true
}

type stubLocations map[string]string // location id -> company id

func (s stubLocations) Get(ctx context.Context, companyID, id string) (model.Location, error) {
	if s[id] != companyID {
		return model.Location{}, apperr.NotFound("Location not found")
	}
	return model.Location{ID: id, CompanyID: companyID}, nil
}

var verifier = stubVerifier{
	"tech-token":    {ID: "u-tech", CompanyID: "co-1", Role: model.RoleTechnician, Active: true},
	"manager-token": {ID: "u-mgr", CompanyID: "co-1", Role: model.RoleManager, Active: true},
	"orphan-token":  {ID: "u-orphan", Role: model.RoleAdmin, Active: true},
}

func newContext(target string, header http.Header) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func chain(h echo.HandlerFunc, mws ...echo.MiddlewareFunc) echo.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestAuthenticateMissingVersusInvalidToken(t *testing.T) {
	h := chain(ok, Authenticate(verifier))
	cases := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"no header", "", http.StatusUnauthorized, "Invalid token"},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid token"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Invalid token"},
		{"unknown token", "Bearer forged", http.StatusForbidden, "Unauthorized"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := http.Header{}
			if tc.header != "" {
				hdr.Set("Authorization", tc.header)
			}
			c, _ := newContext("/api/tickets", hdr)
			err := h(c)
			require.Error(t, err)
			require.Equal(t, tc.status, apperr.Status(err))
			require.EqualError(t, err, tc.msg)
			require.Nil(t, User(c))
		})
	}
}

func TestAuthenticateAttachesUserAndCompany(t *testing.T) {
	var seenUser, seenCompany string
	h := chain(func(c echo.Context) error {
		seenUser, seenCompany = UserID(c), CompanyID(c)
		return nil
	}, Authenticate(verifier), RequireCompany())

	c, _ := newContext("/api/tickets", http.Header{"Authorization": {"bearer tech-token"}})
	require.NoError(t, h(c))
	require.Equal(t, "u-tech", seenUser)
	require.Equal(t, "co-1", seenCompany)
}

func TestRequireCompanyRejectsUserWithoutTenant(t *testing.T) {
	h := chain(ok, Authenticate(verifier), RequireCompany())
	c, _ := newContext("/", http.Header{"Authorization": {"Bearer orphan-token"}})
	require.ErrorIs(t, h(c), apperr.ErrForbidden)
}

func TestResolveLocation(t *testing.T) {
	locs := stubLocations{"loc-1": "co-1", "loc-other": "co-2"}
	var got string
	capture := func(c echo.Context) error { got = LocationID(c); return nil }
	auth := http.Header{"Authorization": {"Bearer tech-token"}}

	optional := chain(capture, Authenticate(verifier), RequireCompany(), ResolveLocation(locs, false))
	required := chain(capture, Authenticate(verifier), RequireCompany(), ResolveLocation(locs, true))

	c, _ := newContext("/api/inventory", auth)
	require.NoError(t, optional(c))
	require.Empty(t, got)

	c, _ = newContext("/api/inventory?locationId=loc-1", auth)
	require.NoError(t, optional(c))
	require.Equal(t, "loc-1", got)

	hdr := auth.Clone()
	hdr.Set("X-Location-ID", "loc-1")
	c, _ = newContext("/api/inventory?locationId=loc-other", hdr)
	require.NoError(t, optional(c))
	require.Equal(t, "loc-1", got, "header wins over query")

	c, _ = newContext("/api/inventory?locationId=loc-other", auth)
	require.ErrorIs(t, optional(c), apperr.ErrNotFound)

	c, _ = newContext("/api/inventory", auth)
	err := required(c)
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.EqualError(t, err, "Location context required")
}

func TestRequireChecksCapabilityTable(t *testing.T) {
	called := false
	h := chain(func(c echo.Context) error { called = true; return nil },
		Authenticate(verifier), RequireCompany(), Require(authz.TransfersComplete))

	c, _ := newContext("/", http.Header{"Authorization": {"Bearer tech-token"}})
	err := h(c)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.EqualError(t, err, "Insufficient permissions")
	require.False(t, called)

	c, _ = newContext("/", http.Header{"Authorization": {"Bearer manager-token"}})
	require.NoError(t, h(c))
	require.True(t, called)
}
