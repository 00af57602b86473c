package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/service"
)

type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Orders   service.OrderService
	Checkout service.CheckoutService
}

type Options struct {
	Sessions       sessions.Store
	SessionName    string
	AllowedOrigins []string
	Metrics        *Metrics
}

func Router(services Services, opts Options) http.Handler {
	if opts.SessionName == "" {
		opts.SessionName = DefaultSessionName
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	h := &handler{
		catalog:     services.Catalog,
		cart:        services.Cart,
		orders:      services.Orders,
		checkout:    services.Checkout,
		sessions:    opts.Sessions,
		sessionName: opts.SessionName,
	}

	r := mux.NewRouter()
	r.Use(opts.Metrics.middleware)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)

	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/items", h.listItems).Methods(http.MethodGet)
	s.HandleFunc("/items/{id}", h.getItem).Methods(http.MethodGet)
	s.HandleFunc("/items/{id}/buy", h.buyItem).Methods(http.MethodPost)
	s.HandleFunc("/items/{id}/payment-intent", h.itemPaymentIntent).Methods(http.MethodPost)

	s.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	s.HandleFunc("/cart/items/{itemID}", h.addToCart).Methods(http.MethodPost)
	s.HandleFunc("/cart/items/{itemID}", h.removeFromCart).Methods(http.MethodDelete)
	s.HandleFunc("/cart/items/{itemID}/decrease", h.decreaseItem).Methods(http.MethodPost)
	s.HandleFunc("/cart/discount", h.applyDiscount).Methods(http.MethodPost)
	s.HandleFunc("/cart/discount", h.removeDiscount).Methods(http.MethodDelete)

	s.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id}/buy", h.buyOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders/{id}/payment-intent", h.orderPaymentIntent).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return logMiddleware(c.Handler(r))
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
