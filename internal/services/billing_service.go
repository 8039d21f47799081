package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/infra"
	"linkbio/internal/models/db_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

type BillingServiceInterface interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID) (*response_models.CheckoutResponse, error)
	// HandleWebhook verifies the Stripe-Signature header before acting on the event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type BillingService struct {
	users         repositories.UserRepository
	gateway       infra.PaymentGateway
	webhookSecret string
	frontendURL   string
	log           *zap.Logger
}

func NewBillingService(users repositories.UserRepository, gateway infra.PaymentGateway, cfg config.Config, log *zap.Logger) BillingServiceInterface {
	return &BillingService{
		users:         users,
		gateway:       gateway,
		webhookSecret: cfg.Stripe.WebhookSecret,
		frontendURL:   cfg.FrontendURL,
		log:           log,
	}
}

func (s *BillingService) CreateCheckout(ctx context.Context, userID uuid.UUID) (*response_models.CheckoutResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, dbFailure(ctx, s.log, "find user", err)
	}
	if user == nil {
		return nil, utils.WithMessage(utils.ErrUserNotFound, "Usuário não encontrado.")
	}
	if user.IsPremium() {
		return nil, utils.WithMessage(utils.ErrConflict, "Sua conta já é Premium.")
	}

	customerID, err := s.customerFor(ctx, user)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, customerID,
		s.frontendURL+"/dashboard?payment=success",
		s.frontendURL+"/dashboard?payment=cancel")
	if err != nil {
		logger.WithContext(ctx, s.log).Error("stripe checkout failed", zap.Error(err))
		return nil, utils.WithMessage(utils.ErrExternalService, "Não foi possível iniciar o pagamento.")
	}
	return &response_models.CheckoutResponse{URL: url}, nil
}

func (s *BillingService) customerFor(ctx context.Context, user *db_models.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	customerID, err := s.gateway.CreateCustomer(ctx, email, user.Name, user.ID.String())
	if err != nil {
		logger.WithContext(ctx, s.log).Error("stripe customer creation failed", zap.Error(err))
		return "", utils.WithMessage(utils.ErrExternalService, "Não foi possível iniciar o pagamento.")
	}
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"stripe_customer_id": customerID}); err != nil {
		return "", dbFailure(ctx, s.log, "store stripe customer", err)
	}
	return customerID, nil
}

func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	log := logger.WithContext(ctx, s.log)

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Warn("stripe webhook rejected", zap.Error(err))
		return utils.ErrInvalidSignature
	}

	var customerID, role string
	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return utils.WithMessage(utils.ErrValidation, "Evento inválido.")
		}
		if session.Customer != nil {
			customerID = session.Customer.ID
		}
		role = db_models.RolePremium
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return utils.WithMessage(utils.ErrValidation, "Evento inválido.")
		}
		if sub.Customer != nil {
			customerID = sub.Customer.ID
		}
		role = db_models.RoleFree
	default:
		log.Info("stripe webhook ignored", zap.String("type", string(event.Type)))
		return nil
	}

	if customerID == "" {
		log.Warn("stripe webhook without customer", zap.String("type", string(event.Type)))
		return nil
	}
	updated, err := s.users.UpdateRoleByStripeCustomer(ctx, customerID, role)
	if err != nil {
		return dbFailure(ctx, s.log, "update role by customer", err)
	}
	if updated == 0 {
		log.Warn("stripe customer not linked to a user", zap.String("customer", customerID))
		return nil
	}
	log.Info("user role changed by billing",
		zap.String("customer", customerID), zap.String("role", role))
	return nil
}
