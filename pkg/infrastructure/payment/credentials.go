package payment

import (
	"storefront/pkg/domain/model"
)

// Keys is a processor account key pair.
type Keys struct {
	Secret string
	Public string
}

// Credentials selects the processor account by currency. A currency without
// its own pair is charged through the USD account.
type Credentials map[model.Currency]Keys

func (c Credentials) Lookup(currency model.Currency) Keys {
	if keys, ok := c[currency]; ok && keys.Secret != "" {
		return keys
	}
	return c[model.USD]
}
