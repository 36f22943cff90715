package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type AuthorizeRequest struct {
	Reference   string
	AmountCents int64
	Currency    string
	Method      string
}

type AuthorizeResponse struct {
	TransactionUID string
	Authorized     bool
	Reason         string
}

// Payer is the port towards the payment acquirer. Authorize blocks for the
// duration of the (simulated) network round-trip; it honors context
// cancellation so an abandoned checkout does not commit a stale order.
//
//go:generate mockgen -source=payer.go -package checkout -destination payer_mock.go Payer
type Payer interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResponse, error)
}

type simulatedPayer struct {
	delay       time.Duration
	declineRate int // percentage of attempts refused, 0..100
	r           *rand.Rand
}

// NewSimulatedPayer returns a Payer that sleeps for the configured latency
// and then authorizes, declining a configurable percentage of attempts.
func NewSimulatedPayer(delay time.Duration, declineRate int) Payer {
	return &simulatedPayer{
		delay:       delay,
		declineRate: declineRate,
		r:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *simulatedPayer) Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResponse, error) {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return AuthorizeResponse{}, ctx.Err()
	case <-timer.C:
	}

	resp := AuthorizeResponse{
		TransactionUID: fmt.Sprintf("TXN-%d", time.Now().UnixNano()),
		Authorized:     true,
	}

	if p.declineRate > 0 && p.r.Intn(100) < p.declineRate {
		resp.Authorized = false
		resp.Reason = "declined by acquirer"
	}

	return resp, nil
}
