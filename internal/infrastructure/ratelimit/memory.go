// Package ratelimit limita solicitudes por ruta e identidad con ventana fija en memoria.
package ratelimit

import (
	"sync"
	"time"
)

// sweepEvery cada cuántas llamadas se purgan ventanas vencidas.
const sweepEvery = 1024

// Decision resultado de una consulta al limitador.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // > 0 solo cuando Allowed es false
}

type key struct {
	route    string
	identity string
}

type bucket struct {
	start  time.Time
	window time.Duration
	count  int
}

// Memory limitador de ventana fija para un solo proceso. Seguro para uso concurrente.
type Memory struct {
	mu      sync.Mutex
	buckets map[key]*bucket
	now     func() time.Time
	calls   int
}

// NewMemory crea el limitador con el reloj del sistema.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock crea el limitador con un reloj inyectado (tests).
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{buckets: make(map[key]*bucket), now: now}
}

// Allow registra una solicitud de identity en route y decide si se admite.
// Dentro de una ventana se admiten como mucho max solicitudes; la ventana empieza con la primera.
// max <= 0 o window <= 0 significan sin límite.
func (m *Memory) Allow(route, identity string, max int, window time.Duration) Decision {
	if max <= 0 || window <= 0 {
		return Decision{Allowed: true, Remaining: -1}
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(now)
	}

	k := key{route: route, identity: identity}
	b, ok := m.buckets[k]
	if !ok || !now.Before(b.start.Add(b.window)) || b.window != window {
		b = &bucket{start: now, window: window}
		m.buckets[k] = b
	}

	if b.count >= max {
		return Decision{Allowed: false, RetryAfter: b.start.Add(b.window).Sub(now)}
	}
	b.count++
	return Decision{Allowed: true, Remaining: max - b.count}
}

// Len cantidad de ventanas vivas (métricas y tests).
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// sweep elimina ventanas vencidas. Requiere m.mu tomado.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if !now.Before(b.start.Add(b.window)) {
			delete(m.buckets, k)
		}
	}
}
