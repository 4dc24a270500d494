// Package middleware holds the echo middleware of the API: the
// authentication, tenant, location and role gates plus request logging,
// metrics, security headers and rate limiting.  Gates report failures by
// returning *apperr.Error; the HTTP error handler renders them.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/repair-shop/internal/model"
)

const (
	userKey     = "auth.user"
	companyKey  = "auth.company_id"
	locationKey = "auth.location_id"
)

// User returns the authenticated user, or nil before the authentication
// gate ran.
func User(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

// UserID returns the authenticated user's id, or "" when anonymous.
func UserID(c echo.Context) string {
	if u := User(c); u != nil {
		return u.ID
	}
	return ""
}

// CompanyID returns the tenant attached by RequireCompany.
func CompanyID(c echo.Context) string {
	s, _ := c.Get(companyKey).(string)
	return s
}

// LocationID returns the location attached by ResolveLocation, or "" when
// the request has no location context.
func LocationID(c echo.Context) string {
	s, _ := c.Get(locationKey).(string)
	return s
}
