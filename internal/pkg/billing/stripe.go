package billing

import (
	"context"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/env"
)

// Provider is the external billing provider surface consumed by the
// reconciler and the checkout initiator. Lookups return (nil, nil) for a
// definitive "not found"; failures return a ProviderError.
type Provider interface {
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error)
	FindActiveSubscription(ctx context.Context, customerID string) (*ProviderSubscription, error)
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// providerCallTimeout bounds every Stripe call; a timeout surfaces as a
// ProviderError, distinct from a definitive not-found.
const providerCallTimeout = 20 * time.Second

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct{}

// NewStripeProviderFromEnv configures the global Stripe key and returns the
// provider.
func NewStripeProviderFromEnv() *StripeProvider {
	stripe.Key = strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", ""))
	return &StripeProvider{}
}

func (p *StripeProvider) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := customer.List(params)
	for iter.Next() {
		c := iter.Customer()
		return &Customer{ID: c.ID, Email: c.Email}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, apperr.Provider("falha ao consultar clientes no Stripe", err)
	}
	return nil, nil
}

func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	c, err := customer.New(params)
	if err != nil {
		return nil, apperr.Provider("falha ao criar cliente no Stripe", err)
	}
	return &Customer{ID: c.ID, Email: c.Email}, nil
}

func (p *StripeProvider) FindActiveSubscription(ctx context.Context, customerID string) (*ProviderSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := subscription.List(params)
	for iter.Next() {
		s := iter.Subscription()
		sub := &ProviderSubscription{
			ID:         s.ID,
			CustomerID: customerID,
			Status:     string(s.Status),
		}
		// Price and billing period live on the subscription item.
		if s.Items != nil && len(s.Items.Data) > 0 {
			item := s.Items.Data[0]
			if item.Price != nil {
				sub.PriceCents = item.Price.UnitAmount
			}
			sub.CurrentPeriodStart = time.Unix(item.CurrentPeriodStart, 0).UTC()
			sub.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0).UTC()
		}
		return sub, nil
	}
	if err := iter.Err(); err != nil {
		return nil, apperr.Provider("falha ao consultar assinaturas no Stripe", err)
	}
	return nil, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(in.CustomerID),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(in.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(in.ProductName),
						Description: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(in.UnitAmountCents),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: in.Metadata,
	}
	params.Context = ctx

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", apperr.Provider("falha ao criar sessão de checkout no Stripe", err)
	}
	return s.URL, nil
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := portalsession.New(params)
	if err != nil {
		return "", apperr.Provider("falha ao criar sessão do portal no Stripe", err)
	}
	return s.URL, nil
}
