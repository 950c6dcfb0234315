package billing

import (
	"context"
	"testing"
	"time"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stores   map[uint]*models.Store
	subs     map[uint]*models.Subscription
	events   map[string]*models.WebhookEvent
	upserts  int
	nextID   uint
	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stores: map[uint]*models.Store{},
		subs:   map[uint]*models.Subscription{},
		events: map[string]*models.WebhookEvent{},
	}
}

func (r *fakeRepo) GetStoreByID(id uint) (*models.Store, error) {
	if s, ok := r.stores[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("loja não encontrada")
}

func (r *fakeRepo) GetSubscriptionByStore(storeID uint) (*models.Subscription, error) {
	if s, ok := r.subs[storeID]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("assinatura não encontrada")
}

func (r *fakeRepo) GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	for _, s := range r.subs {
		if s.StripeCustomerID == customerID {
			return s, nil
		}
	}
	return nil, apperr.NotFound("assinatura não encontrada")
}

func (r *fakeRepo) UpsertSubscription(sub *models.Subscription) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.upserts++
	if existing, ok := r.subs[sub.StoreID]; ok {
		sub.ID = existing.ID
	} else {
		r.nextID++
		sub.ID = r.nextID
	}
	clone := *sub
	r.subs[sub.StoreID] = &clone
	return nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	if existing, ok := r.events[event.ProviderEventID]; ok {
		return false, existing, nil
	}
	r.nextID++
	event.ID = r.nextID
	r.events[event.ProviderEventID] = event
	return true, event, nil
}

func (r *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range r.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return apperr.NotFound("evento não encontrado")
}

type fakeProvider struct {
	customer *Customer
	sub      *ProviderSubscription
	err      error

	calls           int
	createdCustomer bool
	lastCheckout    CheckoutSessionInput
}

func (p *fakeProvider) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	p.calls++
	return p.customer, p.err
}

func (p *fakeProvider) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	p.createdCustomer = true
	p.customer = &Customer{ID: "cus_new", Email: email}
	return p.customer, nil
}

func (p *fakeProvider) FindActiveSubscription(ctx context.Context, customerID string) (*ProviderSubscription, error) {
	p.calls++
	return p.sub, p.err
}

func (p *fakeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	p.lastCheckout = in
	return "https://checkout.stripe.test/session", nil
}

func (p *fakeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return "https://portal.stripe.test/session", nil
}

func testStore(clientCount int) *models.Store {
	return &models.Store{
		ID:          1,
		UUID:        "11111111-1111-1111-1111-111111111111",
		Name:        "Padaria do João",
		Slug:        "padaria-do-joao",
		Email:       "dono@padaria.com.br",
		ClientCount: clientCount,
	}
}

func TestCheckSubscriptionTrialWhenNoCustomer(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(3)
	provider := &fakeProvider{}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	ent, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, ent.HasSubscription)
	assert.Equal(t, pricing.PlanTrial, ent.PlanType)
	assert.Equal(t, 3, ent.ClientCount)
	assert.Equal(t, pricing.TrialClientLimit, ent.ClientLimit)
	assert.True(t, ent.CanAddClients)
	assert.Equal(t, 0, repo.upserts)
}

func TestCheckSubscriptionTrialAtLimitBlocksClients(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(5)
	svc := NewService(repo, &fakeProvider{}, ModeMetered, "https://lojify.test")

	ent, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ent.CanAddClients)
}

func TestCheckSubscriptionTrialWhenNoActiveSubscription(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(2)
	provider := &fakeProvider{customer: &Customer{ID: "cus_1", Email: "dono@padaria.com.br"}}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	ent, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ent.HasSubscription)
	assert.Equal(t, pricing.PlanTrial, ent.PlanType)
}

func TestCheckSubscriptionMeteredUpsertsAndPrices(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(250)
	end := time.Now().Add(20 * 24 * time.Hour).Truncate(time.Second)
	provider := &fakeProvider{
		customer: &Customer{ID: "cus_1"},
		sub: &ProviderSubscription{
			ID:                 "sub_1",
			CustomerID:         "cus_1",
			Status:             "active",
			PriceCents:         3510,
			CurrentPeriodEnd:   end,
			CurrentPeriodStart: end.Add(-30 * 24 * time.Hour),
		},
	}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	ent, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, ent.HasSubscription)
	assert.Equal(t, pricing.PlanUnico, ent.PlanType)
	assert.Equal(t, pricing.UnlimitedClientLimit, ent.ClientLimit)
	assert.True(t, ent.CanAddClients)
	assert.InDelta(t, 30.00, ent.BasePrice, 0.001)
	assert.InDelta(t, 5.10, ent.ExtraClientsCharge, 0.001)
	assert.InDelta(t, 35.10, ent.TotalMonthlyPrice, 0.001)
	require.NotNil(t, ent.SubscriptionEnd)
	assert.True(t, ent.SubscriptionEnd.Equal(end))

	stored := repo.subs[1]
	require.NotNil(t, stored)
	assert.Equal(t, pricing.PlanUnico, stored.PlanType)
	assert.Equal(t, int64(3510), stored.MonthlyPriceCents)
	assert.Equal(t, "cus_1", stored.StripeCustomerID)
	assert.Equal(t, "sub_1", stored.StripeSubscriptionID)
	assert.Equal(t, models.SUBSCRIPTION_STATUS_ACTIVE, stored.Status)
}

func TestCheckSubscriptionIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(100)
	provider := &fakeProvider{
		customer: &Customer{ID: "cus_1"},
		sub:      &ProviderSubscription{ID: "sub_1", CustomerID: "cus_1", Status: "active", PriceCents: 3000},
	}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	_, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)
	first := *repo.subs[1]

	_, err = svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)
	second := *repo.subs[1]

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PlanType, second.PlanType)
	assert.Equal(t, first.MonthlyPriceCents, second.MonthlyPriceCents)
	assert.Equal(t, 2, repo.upserts)
}

func TestCheckSubscriptionTieredMapsPriceToTier(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(150)
	provider := &fakeProvider{
		customer: &Customer{ID: "cus_1"},
		sub:      &ProviderSubscription{ID: "sub_1", CustomerID: "cus_1", Status: "active", PriceCents: 5500},
	}
	svc := NewService(repo, provider, ModeTiered, "https://lojify.test")

	ent, err := svc.CheckSubscription(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, pricing.PlanIntermediario, ent.PlanType)
	assert.Equal(t, 199, ent.ClientLimit)
	assert.True(t, ent.CanAddClients)
	assert.InDelta(t, 55.00, ent.TotalMonthlyPrice, 0.001)
	assert.Zero(t, ent.ExtraClientsCharge)
}

func TestCheckSubscriptionProviderFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(10)
	provider := &fakeProvider{err: apperr.Provider("stripe indisponível", nil)}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	_, err := svc.CheckSubscription(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
}

func TestCheckSubscriptionStoreNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProvider{}, ModeMetered, "https://lojify.test")

	_, err := svc.CheckSubscription(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateCheckoutTieredRejectsUnknownPlanBeforeProviderCalls(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(10)
	provider := &fakeProvider{}
	svc := NewService(repo, provider, ModeTiered, "https://lojify.test")

	_, err := svc.CreateCheckout(context.Background(), 1, "premium")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, 0, provider.calls)
}

func TestCreateCheckoutMeteredSnapshotsUsage(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(250)
	provider := &fakeProvider{}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	url, err := svc.CreateCheckout(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/session", url)

	assert.True(t, provider.createdCustomer)
	assert.Equal(t, int64(3510), provider.lastCheckout.UnitAmountCents)
	assert.Equal(t, "brl", provider.lastCheckout.Currency)
	assert.Equal(t, "https://lojify.test/store/padaria-do-joao/subscription?success=true", provider.lastCheckout.SuccessURL)
	assert.Equal(t, "https://lojify.test/store/padaria-do-joao/subscription?canceled=true", provider.lastCheckout.CancelURL)
	assert.Equal(t, "250", provider.lastCheckout.Metadata["client_count"])
}

func TestCreateCheckoutTieredUsesTierPrice(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(10)
	provider := &fakeProvider{customer: &Customer{ID: "cus_1"}}
	svc := NewService(repo, provider, ModeTiered, "https://lojify.test")

	_, err := svc.CreateCheckout(context.Background(), 1, pricing.PlanAvancado)
	require.NoError(t, err)
	assert.False(t, provider.createdCustomer)
	assert.Equal(t, int64(8000), provider.lastCheckout.UnitAmountCents)
	assert.Contains(t, provider.lastCheckout.ProductName, "Avançado")
	assert.Equal(t, "Clientes ilimitados", provider.lastCheckout.Description)
}

func TestOpenPortalRequiresCustomer(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(10)
	svc := NewService(repo, &fakeProvider{}, ModeMetered, "https://lojify.test")

	_, err := svc.OpenPortal(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOpenPortalReturnsURL(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(10)
	provider := &fakeProvider{customer: &Customer{ID: "cus_1"}}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	url, err := svc.OpenPortal(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.stripe.test/session", url)
}

func TestHandleWebhookEventIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(80)
	repo.subs[1] = &models.Subscription{ID: 7, StoreID: 1, StripeCustomerID: "cus_1"}
	provider := &fakeProvider{
		customer: &Customer{ID: "cus_1"},
		sub:      &ProviderSubscription{ID: "sub_1", CustomerID: "cus_1", Status: "active", PriceCents: 3000},
	}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	in := WebhookEventInput{
		ProviderEventID: "evt_1",
		EventType:       "customer.subscription.updated",
		PayloadJSON:     `{"id":"evt_1"}`,
		SignatureValid:  true,
		CustomerID:      "cus_1",
	}

	require.NoError(t, svc.HandleWebhookEvent(context.Background(), in))
	assert.Equal(t, 1, repo.upserts)
	require.NotNil(t, repo.events["evt_1"].ProcessedAt)

	callsAfterFirst := provider.calls
	require.NoError(t, svc.HandleWebhookEvent(context.Background(), in))
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, callsAfterFirst, provider.calls)
}

func TestHandleWebhookEventRetriesFailedRedelivery(t *testing.T) {
	repo := newFakeRepo()
	repo.stores[1] = testStore(80)
	repo.subs[1] = &models.Subscription{ID: 7, StoreID: 1, StripeCustomerID: "cus_1"}
	provider := &fakeProvider{
		customer: &Customer{ID: "cus_1"},
		sub:      &ProviderSubscription{ID: "sub_1", CustomerID: "cus_1", Status: "active", PriceCents: 3000},
		err:      apperr.Provider("falha ao consultar clientes no Stripe", nil),
	}
	svc := NewService(repo, provider, ModeMetered, "https://lojify.test")

	in := WebhookEventInput{
		ProviderEventID: "evt_3",
		EventType:       "customer.subscription.updated",
		PayloadJSON:     `{"id":"evt_3"}`,
		SignatureValid:  true,
		CustomerID:      "cus_1",
	}

	// First delivery hits a provider outage: the event is recorded with the
	// failure, nothing is reconciled, and the caller gets the error back so
	// the provider redelivers.
	err := svc.HandleWebhookEvent(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
	assert.Equal(t, 0, repo.upserts)
	require.NotNil(t, repo.events["evt_3"].ProcessedAt)
	assert.NotEmpty(t, repo.events["evt_3"].ProcessingError)

	// Redelivery after the outage clears must run reconciliation instead of
	// short-circuiting on the already-recorded event.
	provider.err = nil
	require.NoError(t, svc.HandleWebhookEvent(context.Background(), in))
	assert.Equal(t, 1, repo.upserts)
	require.NotNil(t, repo.events["evt_3"].ProcessedAt)
	assert.Empty(t, repo.events["evt_3"].ProcessingError)

	// A further redelivery of the now-processed event stays a no-op.
	callsAfterRetry := provider.calls
	require.NoError(t, svc.HandleWebhookEvent(context.Background(), in))
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, callsAfterRetry, provider.calls)
}

func TestHandleWebhookEventUnknownCustomerIgnored(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeProvider{}, ModeMetered, "https://lojify.test")

	err := svc.HandleWebhookEvent(context.Background(), WebhookEventInput{
		ProviderEventID: "evt_2",
		EventType:       "customer.subscription.deleted",
		CustomerID:      "cus_desconhecido",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.events["evt_2"].ProcessedAt)
	assert.Empty(t, repo.events["evt_2"].ProcessingError)
}
