package event

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"storefront/pkg/domain/service"
)

const routingPrefix = "storefront."

type message struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Payload    service.Event `json:"payload"`
}

func encode(event service.Event, now time.Time) ([]byte, error) {
	body, err := json.Marshal(message{Type: event.Type(), OccurredAt: now.UTC(), Payload: event})
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", event.Type())
	}
	return body, nil
}

// RoutingKey maps an event type to a topic routing key, e.g. LineAdded to
// storefront.line_added.
func RoutingKey(eventType string) string {
	var b strings.Builder
	b.WriteString(routingPrefix)
	for i, r := range eventType {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
