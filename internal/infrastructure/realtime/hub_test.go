package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/internal/domain/scope"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failing  bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func tenantScope(tenantID string) scope.Scope {
	return scope.Scope{Mode: scope.ModeTenant, TenantID: tenantID, UserID: "admin-" + tenantID}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(8, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

func TestHub_DifundeSoloAlTenant(t *testing.T) {
	h, _ := startHub(t)
	ctx := context.Background()
	a, b := &fakeConn{}, &fakeConn{}
	require.NoError(t, h.Subscribe(ctx, tenantScope("t1"), a))
	require.NoError(t, h.Subscribe(ctx, tenantScope("t2"), b))

	h.StockChanged("t1", []entity.StockLevel{{ProductID: "p1", ShopID: "s1", Stock: 4}})

	require.Eventually(t, func() bool { return a.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.count())

	var ev StockEvent
	a.mu.Lock()
	require.NoError(t, json.Unmarshal(a.messages[0], &ev))
	a.mu.Unlock()
	assert.Equal(t, "stock.changed", ev.Type)
	assert.Equal(t, 4, ev.Levels[0].Stock)
}

func TestHub_DescartaClienteRoto(t *testing.T) {
	h, _ := startHub(t)
	ctx := context.Background()
	bad := &fakeConn{failing: true}
	require.NoError(t, h.Subscribe(ctx, tenantScope("t1"), bad))

	h.StockChanged("t1", nil)
	require.Eventually(t, bad.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_UnsubscribeCierra(t *testing.T) {
	h, _ := startHub(t)
	ctx := context.Background()
	c := &fakeConn{}
	require.NoError(t, h.Subscribe(ctx, tenantScope("t1"), c))
	h.Unsubscribe(ctx, tenantScope("t1"), c)
	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_RunCierraAlCancelar(t *testing.T) {
	h, cancel := startHub(t)
	c := &fakeConn{}
	require.NoError(t, h.Subscribe(context.Background(), tenantScope("t1"), c))
	cancel()
	require.Eventually(t, c.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_FiltraPorTiendaDelAlcance(t *testing.T) {
	h, _ := startHub(t)
	ctx := context.Background()
	admin := &fakeConn{}
	cajeroA := &fakeConn{}
	cajeroB := &fakeConn{}
	require.NoError(t, h.Subscribe(ctx, tenantScope("tenant-1"), admin))
	require.NoError(t, h.Subscribe(ctx, scope.Scope{Mode: scope.ModeShop, TenantID: "tenant-1", ShopID: "shop-A", UserID: "u-a"}, cajeroA))
	require.NoError(t, h.Subscribe(ctx, scope.Scope{Mode: scope.ModeShop, TenantID: "tenant-1", ShopID: "shop-B", UserID: "u-b"}, cajeroB))

	h.StockChanged("tenant-1", []entity.StockLevel{{ProductID: "p-b", ShopID: "shop-B", Stock: 7}})
	h.StockChanged("tenant-1", []entity.StockLevel{
		{ProductID: "p-a", ShopID: "shop-A", Stock: 2},
		{ProductID: "p-b", ShopID: "shop-B", Stock: 6},
	})

	require.Eventually(t, func() bool { return admin.count() == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return cajeroB.count() == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return cajeroA.count() == 1 }, time.Second, 5*time.Millisecond)

	var ev StockEvent
	cajeroA.mu.Lock()
	require.NoError(t, json.Unmarshal(cajeroA.messages[0], &ev))
	cajeroA.mu.Unlock()
	require.Len(t, ev.Levels, 1)
	assert.Equal(t, "shop-A", ev.Levels[0].ShopID)
	assert.Equal(t, 2, ev.Levels[0].Stock)

	var full StockEvent
	admin.mu.Lock()
	require.NoError(t, json.Unmarshal(admin.messages[1], &full))
	admin.mu.Unlock()
	assert.Len(t, full.Levels, 2)
}

func TestHub_RechazaAlcanceSinTenant(t *testing.T) {
	h, _ := startHub(t)
	err := h.Subscribe(context.Background(), scope.Scope{Mode: scope.ModeCrossTenant, UserID: "root"}, &fakeConn{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
