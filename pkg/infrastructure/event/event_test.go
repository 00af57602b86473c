package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

type recordingDispatcher struct {
	events []service.Event
	err    error
}

func (d *recordingDispatcher) Dispatch(event service.Event) error {
	d.events = append(d.events, event)
	return d.err
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "storefront.line_added", RoutingKey(model.LineAdded{}.Type()))
	assert.Equal(t, "storefront.order_paid", RoutingKey(model.OrderPaid{}.Type()))
	assert.Equal(t, "storefront.cart_created", RoutingKey("CartCreated"))
}

func TestEncode(t *testing.T) {
	orderID := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	body, err := encode(model.OrderPaid{OrderID: orderID, TotalCents: 972, Currency: model.USD}, now)
	require.NoError(t, err)

	var decoded struct {
		Type       string    `json:"type"`
		OccurredAt time.Time `json:"occurred_at"`
		Payload    struct {
			OrderID    uuid.UUID
			TotalCents int64
			Currency   string
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "OrderPaid", decoded.Type)
	assert.True(t, now.Equal(decoded.OccurredAt))
	assert.Equal(t, orderID, decoded.Payload.OrderID)
	assert.Equal(t, int64(972), decoded.Payload.TotalCents)
	assert.Equal(t, "usd", decoded.Payload.Currency)
}

func TestMultiDispatcher(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		a, b := &recordingDispatcher{}, &recordingDispatcher{}
		require.NoError(t, MultiDispatcher{a, b}.Dispatch(model.CartCreated{}))
		assert.Len(t, a.events, 1)
		assert.Len(t, b.events, 1)
	})

	t.Run("Fail keeps dispatching", func(t *testing.T) {
		broken := &recordingDispatcher{err: errors.New("broker down")}
		healthy := &recordingDispatcher{}
		err := MultiDispatcher{broken, healthy}.Dispatch(model.CartCreated{})
		assert.EqualError(t, err, "broker down")
		assert.Len(t, healthy.events, 1)
	})
}

func TestLogDispatcher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dispatcher := NewLogDispatcher(logger)

	require.NoError(t, dispatcher.Dispatch(model.TaxCleared{OrderID: uuid.New()}))
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "TaxCleared", entry.Data["event"])
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, ParseBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Empty(t, ParseBrokers(""))

	_, err := NewKafkaDispatcher(nil, "storefront")
	assert.Error(t, err)
}
