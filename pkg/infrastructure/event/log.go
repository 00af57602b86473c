package event

import (
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/service"
)

type LogDispatcher struct {
	logger log.FieldLogger
}

func NewLogDispatcher(logger log.FieldLogger) *LogDispatcher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(event service.Event) error {
	d.logger.WithFields(log.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("domain event")
	return nil
}
