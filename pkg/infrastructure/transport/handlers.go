package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type handler struct {
	catalog     service.CatalogService
	cart        service.CartService
	orders      service.OrderService
	checkout    service.CheckoutService
	sessions    sessions.Store
	sessionName string
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, newItemView(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemPageView{
		Item:      newItemView(*item),
		PublicKey: h.checkout.PublicKey(item.Currency),
	})
}

func (h *handler) buyItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sessionID, err := h.checkout.CheckoutItem(r.Context(), id, redirectURLs(r, "/cancel/"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{ID: sessionID})
}

func (h *handler) itemPaymentIntent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, err := h.checkout.ItemPaymentIntent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentIntentView{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID})
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	order, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	h.writeCart(w, order)
}

func (h *handler) addToCart(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	quantity := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		if quantity, err = strconv.Atoi(raw); err != nil {
			writeError(w, r, service.ErrInvalidQuantity)
			return
		}
	}
	h.mutateCart(w, r, func(orderID uuid.UUID) (*model.Order, error) {
		return h.cart.AddLine(r.Context(), orderID, itemID, quantity)
	})
}

func (h *handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutateCart(w, r, func(orderID uuid.UUID) (*model.Order, error) {
		return h.cart.RemoveLine(r.Context(), orderID, itemID)
	})
}

func (h *handler) decreaseItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.mutateCart(w, r, func(orderID uuid.UUID) (*model.Order, error) {
		return h.cart.DecreaseLine(r.Context(), orderID, itemID)
	})
}

type discountRequest struct {
	Code string `json:"code"`
}

func (h *handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorView{Error: "malformed request body"})
		return
	}
	h.mutateCart(w, r, func(orderID uuid.UUID) (*model.Order, error) {
		return h.cart.ApplyDiscount(r.Context(), orderID, req.Code)
	})
}

func (h *handler) removeDiscount(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, func(orderID uuid.UUID) (*model.Order, error) {
		return h.cart.RemoveDiscount(r.Context(), orderID)
	})
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCart(w, order)
}

func (h *handler) buyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sessionID, err := h.checkout.CheckoutOrder(r.Context(), id, redirectURLs(r, "/api/v1/cart"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView{ID: sessionID})
}

func (h *handler) orderPaymentIntent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, err := h.checkout.OrderPaymentIntent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentIntentView{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID})
}

// resolveCart finds or creates the caller's cart and persists its id in the
// session cookie before any body is written.
func (h *handler) resolveCart(w http.ResponseWriter, r *http.Request) (*model.Order, bool) {
	session := loadCartSession(h.sessions, h.sessionName, r)
	order, err := h.cart.ResolveCart(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if err := session.save(w, r); err != nil {
		writeError(w, r, errors.Wrap(err, "save session"))
		return nil, false
	}
	return order, true
}

func (h *handler) mutateCart(w http.ResponseWriter, r *http.Request, mutate func(orderID uuid.UUID) (*model.Order, error)) {
	cart, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	order, err := mutate(cart.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeCart(w, order)
}

func (h *handler) writeCart(w http.ResponseWriter, order *model.Order) {
	writeJSON(w, http.StatusOK, newCartView(order, h.checkout.PublicKey(order.Currency())))
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errors.Wrap(errInvalidID, name)
	}
	return id, nil
}

func redirectURLs(r *http.Request, cancelPath string) service.RedirectURLs {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	base := scheme + "://" + r.Host
	return service.RedirectURLs{Success: base + "/success/", Cancel: base + cancelPath}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(b); err != nil {
		log.WithField("err", err).Error("write response status")
	}
}
