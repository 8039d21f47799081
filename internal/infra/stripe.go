package infra

import (
	"context"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"linkbio/internal/config"
)

// PaymentGateway creates Stripe customers and subscription checkouts.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, name, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error)
}

type stripeGateway struct {
	api     *client.API
	priceID string
}

func NewStripeGateway(cfg config.Config) PaymentGateway {
	return &stripeGateway{
		api:     client.New(cfg.Stripe.SecretKey, nil),
		priceID: cfg.Stripe.PremiumPriceID,
	}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, name, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(g.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}
