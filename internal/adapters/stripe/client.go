// Package stripe adapts the Stripe PaymentIntents API to domain.PaymentProcessor.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type Processor struct {
	sc *client.API
	rl *rate.Limiter
}

// New builds a processor. apiURL overrides the Stripe endpoint (stripe-mock, tests);
// empty means the public API. Retries are left to the caller's compensation path.
func New(secretKey, apiURL string, rps int) (*Processor, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if rps <= 0 {
		rps = 20
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 15 * time.Second},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	b := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &Processor{
		sc: client.New(secretKey, &stripe.Backends{API: b, Connect: b, Uploads: b}),
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (p *Processor) CreateIntent(ctx context.Context, req domain.IntentRequest) (domain.PaymentIntent, error) {
	if err := p.rl.Wait(ctx); err != nil {
		return domain.PaymentIntent{}, err
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	pi, err := p.sc.PaymentIntents.New(params)
	observability.ObserveExternal("stripe", "create_intent", statusOf(err), time.Since(start))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

// CancelIntent cancels id. An intent that is already cancelled counts as success.
func (p *Processor) CancelIntent(ctx context.Context, id string) error {
	if err := p.rl.Wait(ctx); err != nil {
		return err
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	start := time.Now()
	_, err := p.sc.PaymentIntents.Cancel(id, params)
	observability.ObserveExternal("stripe", "cancel_intent", statusOf(err), time.Since(start))
	if err == nil {
		return nil
	}
	var se *stripe.Error
	if errors.As(err, &se) && se.Code == stripe.ErrorCodePaymentIntentUnexpectedState &&
		se.PaymentIntent != nil && se.PaymentIntent.Status == stripe.PaymentIntentStatusCanceled {
		return nil
	}
	return fmt.Errorf("cancel payment intent %s: %w", id, err)
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode
	}
	return 0
}
