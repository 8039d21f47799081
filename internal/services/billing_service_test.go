package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/models/db_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/utils"
)

const testWebhookSecret = "whsec_test"

type stubGateway struct {
	customers  int
	successURL string
	cancelURL  string
	err        error
}

func (g *stubGateway) CreateCustomer(_ context.Context, _, _, _ string) (string, error) {
	g.customers++
	return "cus_new", g.err
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, customerID, successURL, cancelURL string) (string, error) {
	g.successURL, g.cancelURL = successURL, cancelURL
	return "https://checkout.stripe.test/" + customerID, g.err
}

func newTestBilling(t *testing.T) (BillingServiceInterface, *stubGateway, repositories.UserRepository, pageStack) {
	t.Helper()
	s := newPageStack(t)
	users := repositories.NewUserRepository(s.db)
	gateway := &stubGateway{}
	cfg := config.Config{FrontendURL: "https://app.example", Stripe: config.StripeConfig{WebhookSecret: testWebhookSecret}}
	return NewBillingService(users, gateway, cfg, zap.NewNop()), gateway, users, s
}

func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func stripeEvent(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2020-08-27","type":%q,"data":{"object":%s}}`, eventType, object))
}

func TestCreateCheckoutStoresCustomerOnce(t *testing.T) {
	billing, gateway, users, s := newTestBilling(t)
	user := seedUser(t, s.db, db_models.RoleFree)
	ctx := context.Background()

	res, err := billing.CreateCheckout(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cus_new", res.URL)
	assert.Equal(t, "https://app.example/dashboard?payment=success", gateway.successURL)
	assert.Equal(t, "https://app.example/dashboard?payment=cancel", gateway.cancelURL)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StripeCustomerID)
	assert.Equal(t, "cus_new", *stored.StripeCustomerID)

	_, err = billing.CreateCheckout(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.customers)
}

func TestCreateCheckoutRejectsPremiumAndGatewayFailures(t *testing.T) {
	billing, gateway, _, s := newTestBilling(t)
	ctx := context.Background()

	premium := seedUser(t, s.db, db_models.RolePremium)
	_, err := billing.CreateCheckout(ctx, premium.ID)
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.Equal(t, "Sua conta já é Premium.", err.Error())

	gateway.err = errors.New("stripe down")
	_, err = billing.CreateCheckout(ctx, seedUser(t, s.db, db_models.RoleFree).ID)
	assert.ErrorIs(t, err, utils.ErrExternalService)
}

func TestWebhookTogglesRole(t *testing.T) {
	billing, _, users, s := newTestBilling(t)
	ctx := context.Background()
	user := seedUser(t, s.db, db_models.RoleFree)
	require.NoError(t, users.Update(ctx, user.ID, map[string]interface{}{"stripe_customer_id": "cus_123"}))

	completed := stripeEvent("checkout.session.completed", `{"id":"cs_1","object":"checkout.session","customer":"cus_123"}`)
	require.NoError(t, billing.HandleWebhook(ctx, completed, signPayload(completed, testWebhookSecret, time.Now())))

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.RolePremium, stored.Role)

	deleted := stripeEvent("customer.subscription.deleted", `{"id":"sub_1","object":"subscription","customer":"cus_123"}`)
	require.NoError(t, billing.HandleWebhook(ctx, deleted, signPayload(deleted, testWebhookSecret, time.Now())))

	stored, err = users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.RoleFree, stored.Role)
}

func TestWebhookIgnoresUnknownEventsAndCustomers(t *testing.T) {
	billing, _, _, _ := newTestBilling(t)
	ctx := context.Background()

	other := stripeEvent("invoice.paid", `{"id":"in_1","object":"invoice"}`)
	assert.NoError(t, billing.HandleWebhook(ctx, other, signPayload(other, testWebhookSecret, time.Now())))

	orphan := stripeEvent("checkout.session.completed", `{"id":"cs_2","object":"checkout.session","customer":"cus_unknown"}`)
	assert.NoError(t, billing.HandleWebhook(ctx, orphan, signPayload(orphan, testWebhookSecret, time.Now())))
}

func TestWebhookRejectsBadSignatures(t *testing.T) {
	billing, _, _, _ := newTestBilling(t)
	payload := stripeEvent("checkout.session.completed", `{"id":"cs_1","object":"checkout.session","customer":"cus_123"}`)

	err := billing.HandleWebhook(context.Background(), payload, signPayload(payload, "whsec_other", time.Now()))
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)

	err = billing.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)

	err = billing.HandleWebhook(context.Background(), payload, "")
	assert.ErrorIs(t, err, utils.ErrInvalidSignature)
}
