package transport

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

var errInvalidID = errors.New("invalid identifier")

var errorStatuses = []struct {
	err    error
	status int
}{
	{model.ErrItemNotFound, http.StatusNotFound},
	{model.ErrOrderNotFound, http.StatusNotFound},
	{model.ErrOrderLineNotFound, http.StatusNotFound},
	{model.ErrDiscountNotFound, http.StatusNotFound},
	{model.ErrTaxNotFound, http.StatusNotFound},
	{errInvalidID, http.StatusBadRequest},
	{service.ErrInvalidQuantity, http.StatusBadRequest},
	{model.ErrQuantityOutOfRange, http.StatusBadRequest},
	{model.ErrOrderAmountTooLarge, http.StatusBadRequest},
	{service.ErrOrderIsEmpty, http.StatusBadRequest},
	{model.ErrDiscountCodeRequired, http.StatusBadRequest},
	{model.ErrCurrencyMismatch, http.StatusBadRequest},
	{service.ErrPaymentFailed, http.StatusBadRequest},
	{service.ErrOrderCannotBeModified, http.StatusConflict},
	{service.ErrOrderAlreadyPaid, http.StatusConflict},
	{model.ErrOptimisticLock, http.StatusConflict},
}

func statusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("url", r.URL.String()).Error("request failed")
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorView{Error: message})
}
