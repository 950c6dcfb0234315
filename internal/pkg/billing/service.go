package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/env"
	"github.com/gustavolopes/lojify/internal/pkg/pricing"
	"gorm.io/gorm"
)

// Service reconciles local subscription records against the billing
// provider's authoritative state and derives store entitlements from the
// result.
type Service struct {
	repo     Repository
	provider Provider

	mode    string
	metered pricing.MeteredPolicy
	tiered  pricing.TieredPolicy
	baseURL string
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, provider Provider, mode, baseURL string) *Service {
	if mode != ModeTiered {
		mode = ModeMetered
	}
	return &Service{
		repo:     repo,
		provider: provider,
		mode:     mode,
		metered:  pricing.DefaultMetered(),
		tiered:   pricing.DefaultTiers(),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// NewServiceFromDB creates a billing service from a GORM DB handle, with the
// Stripe provider and pricing mode read from the environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		NewStripeProviderFromEnv(),
		env.GetEnv("PRICING_MODE", ModeMetered),
		env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"),
	)
}

// CheckSubscription reconciles the store's subscription with the provider
// and returns the resulting entitlement.
//
// The usage counter is read fresh from the store row on every call; no
// pricing decision survives across calls. Reconciling repeatedly with
// unchanged provider state converges on the same persisted record.
func (s *Service) CheckSubscription(ctx context.Context, storeID uint) (*Entitlement, error) {
	store, err := s.repo.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}
	usage := store.ClientCount

	cust, err := s.provider.FindCustomerByEmail(ctx, store.Email)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		log.Printf("[BILLING] store %d has no provider customer, trial entitlement", store.ID)
		return s.trialEntitlement(usage), nil
	}

	sub, err := s.provider.FindActiveSubscription(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// A customer without an active subscription (canceled, expired) is
		// the same terminal state as no customer at all.
		log.Printf("[BILLING] store %d customer %s has no active subscription, trial entitlement", store.ID, cust.ID)
		return s.trialEntitlement(usage), nil
	}

	planType, clientLimit, priceCents := s.resolvePlan(usage, sub.PriceCents)

	record := &models.Subscription{
		StoreID:              store.ID,
		PlanType:             planType,
		ClientLimit:          clientLimit,
		MonthlyPriceCents:    priceCents,
		Status:               models.SUBSCRIPTION_STATUS_ACTIVE,
		StripeCustomerID:     cust.ID,
		StripeSubscriptionID: sub.ID,
	}
	if !sub.CurrentPeriodStart.IsZero() {
		start := sub.CurrentPeriodStart
		record.CurrentPeriodStart = &start
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		record.CurrentPeriodEnd = &end
	}
	if err := s.repo.UpsertSubscription(record); err != nil {
		return nil, err
	}

	ent := s.activeEntitlement(usage, record)
	return ent, nil
}

// resolvePlan maps the provider's price signal to a local plan, limit and
// persisted monthly price for the current mode.
func (s *Service) resolvePlan(usage int, providerPriceCents int64) (string, int, int64) {
	if s.mode == ModeTiered {
		tier := s.tiered.TierForPrice(providerPriceCents)
		return tier.ID, tier.ClientLimit, tier.MonthlyCents
	}
	// Metered: one unbounded plan, priced from the current usage counter.
	b := s.metered.Breakdown(usage)
	return pricing.PlanUnico, pricing.UnlimitedClientLimit, b.TotalCents
}

func tierLabel(id string) string {
	switch id {
	case pricing.PlanBasico:
		return "Básico"
	case pricing.PlanIntermediario:
		return "Intermediário"
	case pricing.PlanAvancado:
		return "Avançado"
	}
	return id
}

func (s *Service) trialEntitlement(usage int) *Entitlement {
	ent := &Entitlement{
		HasSubscription: false,
		PlanType:        pricing.PlanTrial,
		ClientCount:     usage,
		ClientLimit:     pricing.TrialClientLimit,
		CanAddClients:   pricing.CanAddClients(usage, pricing.TrialClientLimit),
	}
	s.fillPrices(ent, usage)
	return ent
}

func (s *Service) activeEntitlement(usage int, sub *models.Subscription) *Entitlement {
	ent := &Entitlement{
		HasSubscription: true,
		PlanType:        sub.PlanType,
		ClientCount:     usage,
		ClientLimit:     sub.ClientLimit,
		CanAddClients:   pricing.CanAddClients(usage, sub.ClientLimit),
		SubscriptionEnd: sub.CurrentPeriodEnd,
	}
	if s.mode == ModeTiered {
		ent.BasePrice = pricing.CentsToReais(sub.MonthlyPriceCents)
		ent.TotalMonthlyPrice = pricing.CentsToReais(sub.MonthlyPriceCents)
	} else {
		s.fillPrices(ent, usage)
	}
	return ent
}

// fillPrices writes the price breakdown for the current usage count into the
// entitlement, so even trial stores see what a subscription would cost.
func (s *Service) fillPrices(ent *Entitlement, usage int) {
	if s.mode == ModeTiered {
		tier := s.tiered.RecommendedTier(usage)
		ent.BasePrice = pricing.CentsToReais(tier.MonthlyCents)
		ent.TotalMonthlyPrice = pricing.CentsToReais(tier.MonthlyCents)
		return
	}
	b := s.metered.Breakdown(usage)
	ent.BasePrice = pricing.CentsToReais(b.BaseCents)
	ent.ExtraClientsCharge = pricing.CentsToReais(b.OverageCents)
	ent.TotalMonthlyPrice = pricing.CentsToReais(b.TotalCents)
}

// CreateCheckout builds a provider-hosted checkout session URL for the
// store. In tiered mode planID selects the tier and is validated before any
// provider call. In metered mode the price is a snapshot of the current
// usage count; it is not re-adjusted as usage grows, an explicit new
// checkout re-prices.
func (s *Service) CreateCheckout(ctx context.Context, storeID uint, planID string) (string, error) {
	var (
		amountCents int64
		productName string
		description string
	)

	store, err := s.repo.GetStoreByID(storeID)
	if err != nil {
		return "", err
	}
	usage := store.ClientCount

	switch s.mode {
	case ModeTiered:
		if strings.TrimSpace(planID) == "" {
			return "", apperr.Validation("plano é obrigatório")
		}
		tier, err := s.tiered.TierByID(planID)
		if err != nil {
			return "", err
		}
		amountCents = tier.MonthlyCents
		productName = fmt.Sprintf("Plano %s - Lojify", tierLabel(tier.ID))
		if tier.Unlimited() {
			description = "Clientes ilimitados"
		} else {
			description = fmt.Sprintf("Até %d clientes cadastrados", tier.ClientLimit)
		}
	default:
		if planID != "" && planID != pricing.PlanUnico {
			return "", apperr.Validation("plano desconhecido: " + planID)
		}
		b := s.metered.Breakdown(usage)
		amountCents = b.TotalCents
		productName = "Plano Único - Lojify"
		description = fmt.Sprintf("R$ 30,00 base + R$ 0,10 por cliente extra (atual: %d clientes)", usage)
	}

	cust, err := s.provider.FindCustomerByEmail(ctx, store.Email)
	if err != nil {
		return "", err
	}
	if cust == nil {
		cust, err = s.provider.CreateCustomer(ctx, store.Email, store.Name, map[string]string{
			"store_id":   store.UUID,
			"store_name": store.Name,
		})
		if err != nil {
			return "", err
		}
		log.Printf("[BILLING] created provider customer %s for store %d", cust.ID, store.ID)
	}

	url, err := s.provider.CreateCheckoutSession(ctx, CheckoutSessionInput{
		CustomerID:      cust.ID,
		ProductName:     productName,
		Description:     description,
		UnitAmountCents: amountCents,
		Currency:        "brl",
		SuccessURL:      fmt.Sprintf("%s/store/%s/subscription?success=true", s.baseURL, store.Slug),
		CancelURL:       fmt.Sprintf("%s/store/%s/subscription?canceled=true", s.baseURL, store.Slug),
		Metadata: map[string]string{
			"store_id":     store.UUID,
			"client_count": fmt.Sprintf("%d", usage),
			"plan":         planID,
		},
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// OpenPortal returns a provider self-service portal URL for the store. The
// store must already have a provider customer.
func (s *Service) OpenPortal(ctx context.Context, storeID uint) (string, error) {
	store, err := s.repo.GetStoreByID(storeID)
	if err != nil {
		return "", err
	}

	cust, err := s.provider.FindCustomerByEmail(ctx, store.Email)
	if err != nil {
		return "", err
	}
	if cust == nil {
		return "", apperr.NotFound("nenhuma assinatura encontrada para esta loja")
	}

	return s.provider.CreatePortalSession(ctx, cust.ID,
		fmt.Sprintf("%s/store/%s/subscription", s.baseURL, store.Slug))
}

// HandleWebhookEvent records a provider event idempotently and, for
// subscription lifecycle events, re-runs reconciliation for the affected
// store. Redeliveries of successfully processed events are no-ops; a
// redelivery of an event whose processing failed runs it again.
func (s *Service) HandleWebhookEvent(ctx context.Context, in WebhookEventInput) error {
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	created, stored, err := s.repo.CreateWebhookEventIfNotExists(event)
	if err != nil {
		return err
	}
	if !created {
		if stored.Processed() {
			log.Printf("[BILLING] webhook event %s already processed, skipping", eventID)
			return nil
		}
		log.Printf("[BILLING] webhook event %s redelivered after failure, retrying", eventID)
	}

	var processingErr error
	if in.CustomerID != "" && strings.HasPrefix(in.EventType, "customer.subscription.") {
		processingErr = s.reconcileByCustomerID(ctx, in.CustomerID)
	}

	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(stored.ID, errMsg); err != nil {
		return err
	}
	return processingErr
}

func (s *Service) reconcileByCustomerID(ctx context.Context, customerID string) error {
	sub, err := s.repo.GetSubscriptionByCustomerID(customerID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// No local record yet; the next dashboard poll reconciles it.
			log.Printf("[BILLING] webhook for unknown customer %s ignored", customerID)
			return nil
		}
		return err
	}
	_, err = s.CheckSubscription(ctx, sub.StoreID)
	return err
}

// GetLocalSubscription returns the locally persisted subscription record
// without touching the provider. Used by admin views.
func (s *Service) GetLocalSubscription(storeID uint) (*models.Subscription, error) {
	return s.repo.GetSubscriptionByStore(storeID)
}
