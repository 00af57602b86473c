package event

import (
	"github.com/pkg/errors"

	"storefront/pkg/domain/service"
)

// MultiDispatcher sends every event to all dispatchers and reports the first
// failure after trying the rest.
type MultiDispatcher []service.EventDispatcher

func (m MultiDispatcher) Dispatch(event service.Event) error {
	var first error
	for _, d := range m {
		if err := d.Dispatch(event); err != nil && first == nil {
			first = errors.WithStack(err)
		}
	}
	return first
}
