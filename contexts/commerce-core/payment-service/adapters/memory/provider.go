package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

// Provider is an in-memory checkout provider for tests and local runs.
// Sessions start open; CompleteSession flips one to paid the way a real
// provider would after the buyer finishes checkout.
type Provider struct {
	mu       sync.Mutex
	sessions map[string]ports.CheckoutSession
	seq      int
}

func NewProvider() *Provider {
	return &Provider{sessions: map[string]ports.CheckoutSession{}}
}

func (p *Provider) CreateCheckoutSession(_ context.Context, input ports.CheckoutInput) (ports.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	session := ports.CheckoutSession{
		SessionID:   fmt.Sprintf("cs_%06d", p.seq),
		Status:      ports.SessionStatusOpen,
		RedirectURL: fmt.Sprintf("https://checkout.local/session/cs_%06d?order=%s", p.seq, input.OrderID),
		CreatedAt:   time.Now().UTC(),
	}
	p.sessions[session.SessionID] = session
	return session, nil
}

func (p *Provider) GetCheckoutSession(_ context.Context, sessionID string) (ports.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[sessionID]
	if !ok {
		return ports.CheckoutSession{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (p *Provider) CompleteSession(sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[sessionID]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	session.Status = ports.SessionStatusPaid
	p.sessions[sessionID] = session
	return nil
}
