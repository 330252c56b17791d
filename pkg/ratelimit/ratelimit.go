// Package ratelimit implementa un limitador de ventana deslizante por
// tenant, en memoria. Es protección de mejor esfuerzo: el estado vive en el
// proceso y se pierde en un reinicio, lo cual es aceptable para acotar
// envíos de correo. Se construye explícitamente y se inyecta; no hay estado
// global de paquete.
package ratelimit

import (
	"sync"
	"time"
)

// Status es la foto de la ventana de un tenant. Consultarla no consume cupo.
type Status struct {
	Used      int
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Limiter ventana deslizante de timestamps por tenant, protegida por mutex.
// Nunca bloquea en I/O: el costo por llamada es O(tamaño de la ventana).
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	windows map[string][]time.Time
	now     func() time.Time // reemplazable en tests
}

// New crea un limitador de maxRequests por ventana por tenant.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		max:     maxRequests,
		window:  window,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow desaloja los timestamps fuera de la ventana y, si queda cupo,
// registra la llamada y devuelve true. Si no hay cupo devuelve false sin
// registrar nada.
func (l *Limiter) Allow(tenantID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.evict(tenantID, now)
	if len(kept) >= l.max {
		l.windows[tenantID] = kept
		return false
	}
	l.windows[tenantID] = append(kept, now)
	return true
}

// Status devuelve el uso actual de la ventana sin contar como petición.
func (l *Limiter) Status(tenantID string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.evict(tenantID, now)
	l.windows[tenantID] = kept

	resetAt := now
	if len(kept) > 0 {
		resetAt = kept[0].Add(l.window)
	}
	remaining := l.max - len(kept)
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Used:      len(kept),
		Remaining: remaining,
		Limit:     l.max,
		ResetAt:   resetAt,
	}
}

// Cleanup elimina las entradas de tenants sin actividad dentro de la
// ventana para acotar el crecimiento del mapa. Es mantenimiento, no
// corrección: Allow ya desaloja lo vencido por tenant.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for tenantID, stamps := range l.windows {
		kept := keepWithin(stamps, now, l.window)
		if len(kept) == 0 {
			delete(l.windows, tenantID)
			continue
		}
		l.windows[tenantID] = kept
	}
}

// evict debe llamarse con el mutex tomado.
func (l *Limiter) evict(tenantID string, now time.Time) []time.Time {
	return keepWithin(l.windows[tenantID], now, l.window)
}

func keepWithin(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	// Los timestamps están en orden de llegada: basta encontrar el primero vigente.
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return stamps
	}
	return append([]time.Time(nil), stamps[i:]...)
}
