// Package catalog layers live-update subscription over the snapshot store.
// The store knows how to read one snapshot; the watcher re-reads it whenever
// a catalog-changed event arrives and hands the fresh snapshot to the
// subscriber. Subscription lifetime is bound to the caller's context, so a
// torn-down view never leaks an in-flight refresh.
package catalog

import (
	"context"
	"sync"

	natsio "github.com/nats-io/nats.go"

	natsadapter "github.com/mumbramart/storefront-service/internal/adapter/nats"
	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/platform/logger"
)

// SnapshotReader is the minimal read capability the watcher wraps.
type SnapshotReader interface {
	GetOnce(ctx context.Context) (*entity.CatalogSnapshot, error)
}

type Watcher struct {
	reader SnapshotReader
	conn   *natsio.Conn
	log    logger.Logger
}

func NewWatcher(reader SnapshotReader, conn *natsio.Conn, log logger.Logger) *Watcher {
	return &Watcher{reader: reader, conn: conn, log: log}
}

func (w *Watcher) GetOnce(ctx context.Context) (*entity.CatalogSnapshot, error) {
	return w.reader.GetOnce(ctx)
}

// Subscribe re-reads the catalog on every change event and delivers the new
// snapshot to onSnapshot. Delivery stops when unsubscribe is called or ctx
// is cancelled, whichever happens first.
func (w *Watcher) Subscribe(ctx context.Context, onSnapshot func(*entity.CatalogSnapshot)) (func(), error) {
	var once sync.Once

	sub, err := w.conn.Subscribe(natsadapter.SubjectCatalogChanged, func(msg *natsio.Msg) {
		if ctx.Err() != nil {
			return
		}
		snapshot, err := w.reader.GetOnce(ctx)
		if err != nil {
			w.log.Errorf("catalog watcher: refresh after change event failed: %v", err)
			return
		}
		onSnapshot(snapshot)
	})
	if err != nil {
		return nil, err
	}

	unsubscribe := func() {
		once.Do(func() {
			if err := sub.Unsubscribe(); err != nil {
				w.log.Warnf("catalog watcher: unsubscribe failed: %v", err)
			}
		})
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return unsubscribe, nil
}
