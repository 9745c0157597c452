package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "threadmart/contexts/identity-access/account-service/domain/errors"
	"threadmart/contexts/identity-access/account-service/ports"
)

type Store struct {
	mu sync.RWMutex

	usersByID    map[string]ports.Identity
	userIDByMail map[string]string
	sequence     uint64
}

func NewStore() *Store {
	return &Store{
		usersByID:    make(map[string]ports.Identity),
		userIDByMail: make(map[string]string),
		sequence:     1,
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("user_%06d", s.sequence)
	s.sequence++
	return id, nil
}

func (s *Store) CreateUser(_ context.Context, userID string, input ports.RegisterInput, now time.Time) (ports.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, exists := s.userIDByMail[email]; exists {
		return ports.Identity{}, domainerrors.ErrEmailTaken
	}

	identity := ports.Identity{
		UserID:    userID,
		Name:      input.Name,
		Email:     email,
		PhotoURL:  input.PhotoURL,
		Role:      input.Role,
		Status:    ports.StatusPending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	s.usersByID[userID] = identity
	s.userIDByMail[email] = userID
	return identity, nil
}

func (s *Store) FindByID(_ context.Context, userID string) (ports.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.usersByID[userID]
	if !ok {
		return ports.Identity{}, domainerrors.ErrUserNotFound
	}
	return identity, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (ports.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.userIDByMail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return ports.Identity{}, domainerrors.ErrUserNotFound
	}
	return s.usersByID[userID], nil
}

func (s *Store) ListUsers(_ context.Context, filter ports.UserFilter) ([]ports.Identity, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]ports.Identity, 0, len(s.usersByID))
	for _, identity := range s.usersByID {
		if filter.Role != "" && identity.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(identity.Name), search) &&
			!strings.Contains(identity.Email, search) {
			continue
		}
		matched = append(matched, identity)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].UserID < matched[j].UserID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := filter.Skip
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Store) UpdateRole(_ context.Context, userID string, role string, now time.Time) (ports.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.usersByID[userID]
	if !ok {
		return ports.Identity{}, domainerrors.ErrUserNotFound
	}
	identity.Role = role
	identity.UpdatedAt = now.UTC()
	s.usersByID[userID] = identity
	return identity, nil
}

func (s *Store) UpdateStatus(_ context.Context, userID string, status string, now time.Time) (ports.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.usersByID[userID]
	if !ok {
		return ports.Identity{}, domainerrors.ErrUserNotFound
	}
	identity.Status = status
	identity.UpdatedAt = now.UTC()
	s.usersByID[userID] = identity
	return identity, nil
}
