package payment

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type StripeGateway struct {
	credentials Credentials
	clients     map[string]*client.API
}

// NewStripeGateway builds one API client per distinct secret key. backends may
// be nil to talk to the live Stripe API.
func NewStripeGateway(credentials Credentials, backends *stripe.Backends) *StripeGateway {
	clients := make(map[string]*client.API)
	for _, keys := range credentials {
		if keys.Secret == "" {
			continue
		}
		if _, ok := clients[keys.Secret]; !ok {
			clients[keys.Secret] = client.New(keys.Secret, backends)
		}
	}
	return &StripeGateway{credentials: credentials, clients: clients}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req service.CheckoutRequest) (string, error) {
	api, err := g.client(req.Currency)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency.String()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				UnitAmount: stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	session, err := api.CheckoutSessions.New(params)
	if err != nil {
		return "", processorError(err)
	}
	log.WithFields(log.Fields{
		"session_id": session.ID,
		"currency":   req.Currency,
		"lines":      len(req.Lines),
	}).Info("checkout session created")
	return session.ID, nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req service.PaymentIntentRequest) (*service.PaymentIntent, error) {
	api, err := g.client(req.Currency)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency.String()),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	intent, err := api.PaymentIntents.New(params)
	if err != nil {
		return nil, processorError(err)
	}
	return &service.PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (g *StripeGateway) PublicKey(currency model.Currency) string {
	return g.credentials.Lookup(currency).Public
}

func (g *StripeGateway) client(currency model.Currency) (*client.API, error) {
	keys := g.credentials.Lookup(currency)
	api, ok := g.clients[keys.Secret]
	if !ok {
		return nil, errors.Wrapf(service.ErrPaymentFailed, "no stripe key for %s", currency)
	}
	return api, nil
}

func processorError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return errors.Wrap(service.ErrPaymentFailed, stripeErr.Msg)
	}
	return errors.Wrap(service.ErrPaymentFailed, err.Error())
}
