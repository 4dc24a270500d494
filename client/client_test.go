package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// tokenServer answers /api/auth/me with the token it received and rejects
// anything else with the given status.
func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/me" && r.Header.Get("Authorization") == "":
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false, "error": map[string]string{"message": "Invalid token"}})
		case r.URL.Path == "/api/auth/me":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": map[string]string{
					"id":        r.Header.Get("Authorization")[len("Bearer "):],
					"companyId": r.Header.Get("X-Location-ID"),
				},
			})
		case r.URL.Path == "/api/inventory-transfers/t-1/complete":
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"success": false, "error": map[string]string{"message": "Insufficient permissions"}})
		case r.URL.Path == "/api/tickets" && r.Method == http.MethodPost:
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error": map[string]interface{}{
					"message": "Validation failed",
					"errors":  map[string]string{"customerId": "is required"},
				},
			})
		case r.URL.Path == "/api/auth/login":
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false, "error": map[string]string{"message": "Invalid email or password"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCredentialsAreRequestScoped(t *testing.T) {
	srv := tokenServer(t)
	c := New(srv.URL)

	var wg sync.WaitGroup
	for _, tok := range []string{"alice", "bob", "carol"} {
		tok := tok
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := WithCredentials(context.Background(), Credentials{AccessToken: tok, LocationID: "loc-" + tok})
			u, err := c.Me(ctx)
			assert.NoError(t, err)
			assert.Equal(t, tok, u.ID)
			assert.Equal(t, "loc-"+tok, u.CompanyID)
		}()
	}
	wg.Wait()
}

func TestAuthFailureHookRunsOnRejectedCredentials(t *testing.T) {
	srv := tokenServer(t)
	var got []*APIError
	c := New(srv.URL+"/api/", OnAuthFailure(func(ctx context.Context, err *APIError) {
		got = append(got, err)
	}))

	_, err := c.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Invalid token", apiErr.Message)
	require.Len(t, got, 1)

	// a role denial is not a session problem
	_, err = c.CompleteTransfer(WithCredentials(context.Background(), Credentials{AccessToken: "x"}), "t-1")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.Len(t, got, 1)

	// neither is a wrong password
	_, err = c.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	require.Len(t, got, 1)
}

func TestValidationFieldsAreExposed(t *testing.T) {
	srv := tokenServer(t)
	c := New(srv.URL)

	_, err := c.CreateTicket(context.Background(), CreateTicketInput{DeviceType: "Laptop"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "is required", apiErr.Fields["customerId"])
	require.False(t, apiErr.IsAuthFailure())
}

func TestNewAppendsAPIPrefixOnce(t *testing.T) {
	require.Equal(t, "http://shop:4000/api", New("http://shop:4000").base)
	require.Equal(t, "http://shop:4000/api", New("http://shop:4000/api/").base)
}

// The client's own types must decode what the server encodes.
func TestWireTypesDecodeServerPayloads(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	loc := "loc-1"
	session := service.Session{
		User:                  model.User{ID: "u-1", CompanyID: "co-1", Email: "grace@example.com", Role: model.RoleAdmin, Active: true},
		AccessToken:           "access.jwt",
		RefreshToken:          "refresh.jwt",
		AccessTokenExpiresAt:  now.Add(time.Hour),
		RefreshTokenExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	ticket := model.TicketView{
		Ticket: model.Ticket{
			ID: "t-1", CompanyID: "co-1", LocationID: &loc, TicketNumber: "TKT-20240115-001",
			CustomerID: "c-1", Status: model.TicketNew, Priority: model.PriorityMedium,
			DeviceType: "Laptop", IssueDescription: "No power", CreatedAt: now, UpdatedAt: now,
		},
		Customer: &model.CustomerSummary{ID: "c-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/register":
			writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "data": session})
		case "/api/tickets/t-1":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": ticket})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)

	s, err := c.Register(context.Background(), RegisterInput{CompanyName: "Fix-It", Email: "grace@example.com"})
	require.NoError(t, err)
	require.Equal(t, "access.jwt", s.AccessToken)
	require.Equal(t, "refresh.jwt", s.RefreshToken)
	require.True(t, s.AccessTokenExpiresAt.Equal(now.Add(time.Hour)))
	require.Equal(t, "admin", s.User.Role)

	got, err := c.GetTicket(WithCredentials(context.Background(), s.Credentials(loc)), "t-1")
	require.NoError(t, err)
	require.Equal(t, "TKT-20240115-001", got.TicketNumber)
	require.Equal(t, "new", got.Status)
	require.Equal(t, loc, *got.LocationID)
	require.Equal(t, "Ada", got.Customer.FirstName)
	require.Nil(t, got.Technician)
}
