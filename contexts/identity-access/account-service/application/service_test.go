package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"threadmart/contexts/identity-access/account-service/adapters/memory"
	domainerrors "threadmart/contexts/identity-access/account-service/domain/errors"
	"threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

func newTestService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	codec, err := token.NewCodec("test-secret", token.DefaultTTL)
	if err != nil {
		t.Fatalf("new codec failed: %v", err)
	}
	store := memory.NewStore()
	return Service{
		Repo:   store,
		Clock:  store,
		IDGen:  store,
		Tokens: codec,
	}, store
}

func TestRegisterStartsPending(t *testing.T) {
	service, _ := newTestService(t)

	identity, err := service.Register(context.Background(), ports.RegisterInput{
		Name:  "Amina",
		Email: "Amina@Example.com",
		Role:  "buyer",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if identity.Status != ports.StatusPending {
		t.Fatalf("expected pending status, got %s", identity.Status)
	}
	if identity.Email != "amina@example.com" {
		t.Fatalf("expected normalized email, got %s", identity.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Role: "buyer",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Other", Email: "amina@example.com", Role: "manager",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsAdminSelfAssignment(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Sneaky", Email: "sneaky@example.com", Role: "admin",
	})
	if !errors.Is(err, domainerrors.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestLoginIssuesVerifiableCredential(t *testing.T) {
	service, _ := newTestService(t)

	registered, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Role: "buyer",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, raw, err := service.Login(context.Background(), "amina@example.com")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if identity.UserID != registered.UserID {
		t.Fatalf("expected %s, got %s", registered.UserID, identity.UserID)
	}

	claims, err := service.Tokens.Verify(raw, time.Now())
	if err != nil {
		t.Fatalf("verify issued credential failed: %v", err)
	}
	if claims.UserID != registered.UserID || claims.Role != "buyer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	service, _ := newTestService(t)

	_, _, err := service.Login(context.Background(), "nobody@example.com")
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	service, _ := newTestService(t)

	identity, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Role: "buyer",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// pending -> suspend is not allowed
	if _, err := service.UpdateStatus(context.Background(), identity.UserID, ports.StatusSuspend); !errors.Is(err, domainerrors.ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
	}

	activated, err := service.UpdateStatus(context.Background(), identity.UserID, ports.StatusActive)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if activated.Status != ports.StatusActive {
		t.Fatalf("expected active, got %s", activated.Status)
	}

	suspended, err := service.UpdateStatus(context.Background(), identity.UserID, ports.StatusSuspend)
	if err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if suspended.Status != ports.StatusSuspend {
		t.Fatalf("expected suspend, got %s", suspended.Status)
	}

	reinstated, err := service.UpdateStatus(context.Background(), identity.UserID, ports.StatusActive)
	if err != nil {
		t.Fatalf("reinstate failed: %v", err)
	}
	if reinstated.Status != ports.StatusActive {
		t.Fatalf("expected active, got %s", reinstated.Status)
	}
}

func TestUpdateRoleTakesEffectOnResolve(t *testing.T) {
	service, _ := newTestService(t)

	identity, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Amina", Email: "amina@example.com", Role: "buyer",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := service.UpdateRole(context.Background(), identity.UserID, ports.RoleManager); err != nil {
		t.Fatalf("update role failed: %v", err)
	}

	resolved, err := service.Resolve(context.Background(), identity.UserID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Role != ports.RoleManager {
		t.Fatalf("expected manager after update, got %s", resolved.Role)
	}
}

func TestListUsersSearchAndPagination(t *testing.T) {
	service, _ := newTestService(t)

	seed := []ports.RegisterInput{
		{Name: "Amina Khan", Email: "amina@example.com", Role: "buyer"},
		{Name: "Bruno Costa", Email: "bruno@example.com", Role: "buyer"},
		{Name: "Chen Wei", Email: "chen@example.com", Role: "manager"},
	}
	for _, input := range seed {
		if _, err := service.Register(context.Background(), input); err != nil {
			t.Fatalf("seed register failed: %v", err)
		}
	}

	users, total, err := service.ListUsers(context.Background(), ports.UserFilter{Search: "RUN"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "bruno@example.com" {
		t.Fatalf("unexpected search result: total=%d users=%+v", total, users)
	}

	page, total, err := service.ListUsers(context.Background(), ports.UserFilter{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if total != 3 || len(page) != 1 {
		t.Fatalf("expected 1 of 3, got %d of %d", len(page), total)
	}
}
