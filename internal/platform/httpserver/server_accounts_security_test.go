package httpserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	accountports "threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/healthz", "", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnmatchedRouteReturnsJSON404(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/definitely/not/a/route", "", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body errorBody
	decodeBody(t, rr, &body)
	if body.Code != "not_found" {
		t.Fatalf("expected not_found code, got %+v", body)
	}
}

func TestRegisterLoginMeFlow(t *testing.T) {
	server := newTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/register",
		`{"name":"Amina","email":"amina@example.com","role":"buyer"}`, nil, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", rr.Code, rr.Body.String())
	}

	loginRR := doJSON(t, server, http.MethodPost, "/login", `{"email":"amina@example.com"}`, nil, nil)
	if loginRR.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", loginRR.Code, loginRR.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range loginRR.Result().Cookies() {
		if c.Name == testCookieName {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %+v", cookie)
	}

	meRR := doJSON(t, server, http.MethodGet, "/me", "", cookie, nil)
	if meRR.Code != http.StatusOK {
		t.Fatalf("expected 200 me, got %d body=%s", meRR.Code, meRR.Body.String())
	}
	var me struct {
		Data struct {
			User struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	decodeBody(t, meRR, &me)
	if me.Data.User.Email != "amina@example.com" || me.Data.User.Role != "buyer" {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

func TestRegisterRejectsSelfAssignedAdmin(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/register",
		`{"name":"Mallory","email":"mallory@example.com","role":"admin"}`, nil, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/login", `{"email":"ghost@example.com"}`, nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMeRequiresCookie(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/me", "", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMeRejectsGarbageToken(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/me", "",
		&http.Cookie{Name: testCookieName, Value: "not-a-jwt"}, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMeRejectsExpiredToken(t *testing.T) {
	server := newTestServer(t)
	identity, _ := seedUser(t, server, accountports.RoleBuyer, accountports.StatusActive)

	codec, err := token.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new codec failed: %v", err)
	}
	stale, err := codec.Issue(token.Claims{
		UserID: identity.UserID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
	}, time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	rr := doJSON(t, server, http.MethodGet, "/me", "",
		&http.Cookie{Name: testCookieName, Value: stale}, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/logout", "", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == testCookieName && c.MaxAge >= 0 {
			t.Fatalf("expected expired cookie, got %+v", c)
		}
	}
}

func TestAdminUsersRequiresAdminRole(t *testing.T) {
	server := newTestServer(t)
	_, buyerCookie := seedUser(t, server, accountports.RoleBuyer, accountports.StatusActive)

	rr := doJSON(t, server, http.MethodGet, "/admin/users", "", buyerCookie, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminUpdatesRoleAndStatus(t *testing.T) {
	server := newTestServer(t)
	_, adminCookie := seedUser(t, server, accountports.RoleAdmin, accountports.StatusActive)
	target, _ := seedUser(t, server, accountports.RoleBuyer, accountports.StatusPending)

	roleRR := doJSON(t, server, http.MethodPatch, "/admin/users/"+target.UserID+"/role",
		`{"role":"manager"}`, adminCookie, nil)
	if roleRR.Code != http.StatusOK {
		t.Fatalf("expected 200 role update, got %d body=%s", roleRR.Code, roleRR.Body.String())
	}

	statusRR := doJSON(t, server, http.MethodPatch, "/admin/users/"+target.UserID+"/status",
		`{"status":"active"}`, adminCookie, nil)
	if statusRR.Code != http.StatusOK {
		t.Fatalf("expected 200 status update, got %d body=%s", statusRR.Code, statusRR.Body.String())
	}

	// pending -> suspend is not an allowed edge on a fresh account
	other, _ := seedUser(t, server, accountports.RoleBuyer, accountports.StatusPending)
	badRR := doJSON(t, server, http.MethodPatch, "/admin/users/"+other.UserID+"/status",
		`{"status":"suspend"}`, adminCookie, nil)
	if badRR.Code != http.StatusConflict {
		t.Fatalf("expected 409 invalid status change, got %d body=%s", badRR.Code, badRR.Body.String())
	}
}

func TestRoleChangeTakesEffectOnExistingSession(t *testing.T) {
	server := newTestServer(t)
	manager, managerCookie := seedUser(t, server, accountports.RoleManager, accountports.StatusActive)

	createRR := doJSON(t, server, http.MethodPost, "/products",
		`{"title":"Linen Shirt","price_cents":1999}`, managerCookie, nil)
	if createRR.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", createRR.Code, createRR.Body.String())
	}

	// demotion applies to the live session; the old cookie still carries
	// the manager role claim
	if _, err := server.accounts.Store.UpdateRole(context.Background(), manager.UserID, accountports.RoleBuyer, time.Now().UTC()); err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	deniedRR := doJSON(t, server, http.MethodPost, "/products",
		`{"title":"Wool Scarf","price_cents":2999}`, managerCookie, nil)
	if deniedRR.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %d body=%s", deniedRR.Code, deniedRR.Body.String())
	}
}
