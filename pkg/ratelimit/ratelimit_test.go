package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test interno al paquete para poder fijar el reloj del limitador.

func newTestLimiter(max int, window time.Duration, at *time.Time) *Limiter {
	l := New(max, window)
	l.now = func() time.Time { return *at }
	return l
}

func TestAllow_VentanaDeslizante(t *testing.T) {
	clock := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := newTestLimiter(3, time.Minute, &clock)

	assert.True(t, l.Allow("acme"), "primera petición dentro del cupo")
	assert.True(t, l.Allow("acme"), "segunda petición dentro del cupo")
	assert.True(t, l.Allow("acme"), "tercera petición agota el cupo")
	assert.False(t, l.Allow("acme"), "la cuarta petición en la misma ventana se deniega")

	// La denegación no consume cupo: sigue denegando, no corre la ventana.
	assert.False(t, l.Allow("acme"))

	// Pasada la ventana del primer timestamp vuelve a haber cupo.
	clock = clock.Add(61 * time.Second)
	assert.True(t, l.Allow("acme"), "al vencer la ventana se libera cupo")
}

func TestAllow_TenantsIndependientes(t *testing.T) {
	clock := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := newTestLimiter(1, time.Minute, &clock)

	assert.True(t, l.Allow("acme"))
	assert.False(t, l.Allow("acme"), "acme agotó su cupo")
	assert.True(t, l.Allow("globex"), "el cupo de un tenant no afecta a otro")
}

func TestStatus_NoConsumeCupo(t *testing.T) {
	clock := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := newTestLimiter(2, time.Minute, &clock)

	assert.True(t, l.Allow("acme"))

	st := l.Status("acme")
	assert.Equal(t, 1, st.Used)
	assert.Equal(t, 1, st.Remaining)
	assert.Equal(t, 2, st.Limit)
	assert.Equal(t, clock.Add(time.Minute), st.ResetAt,
		"ResetAt es el vencimiento del timestamp más antiguo")

	// Consultar el estado repetidas veces no cambia el uso.
	for i := 0; i < 10; i++ {
		l.Status("acme")
	}
	assert.Equal(t, 1, l.Status("acme").Used, "Status no debe contar como petición")
	assert.True(t, l.Allow("acme"), "el cupo restante sigue disponible tras consultar")
}

func TestStatus_TenantSinActividad(t *testing.T) {
	clock := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := newTestLimiter(5, time.Minute, &clock)

	st := l.Status("desconocido")
	assert.Equal(t, 0, st.Used)
	assert.Equal(t, 5, st.Remaining)
	assert.Equal(t, clock, st.ResetAt, "sin timestamps el reset es ahora")
}

func TestCleanup_PodaTenantsVencidos(t *testing.T) {
	clock := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := newTestLimiter(3, time.Minute, &clock)

	l.Allow("acme")
	l.Allow("globex")
	assert.Len(t, l.windows, 2)

	clock = clock.Add(2 * time.Minute)
	l.Allow("globex") // globex sigue activo con un timestamp nuevo

	l.Cleanup()
	assert.Len(t, l.windows, 1, "el tenant sin actividad vigente se elimina del mapa")
	assert.Contains(t, l.windows, "globex")
}

func TestAllow_Concurrente(t *testing.T) {
	l := New(10, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("acme") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed,
		"bajo concurrencia se permite exactamente el máximo de la ventana")
}
