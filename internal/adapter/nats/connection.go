package nats

import (
	"fmt"
	"time"

	"github.com/mumbramart/storefront-service/internal/app/config"
	"github.com/nats-io/nats.go"
)

// SubjectCatalogChanged carries a notification that the seller catalog was
// mutated and cached snapshots should be refreshed.
const SubjectCatalogChanged = "storefront.catalog.changed"

const (
	connectWait   = 5 * time.Second
	maxReconnects = 5
	reconnectWait = 2 * time.Second
)

func NewConnection(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("StorefrontService"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	return nc, nil
}
