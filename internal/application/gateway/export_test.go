package gateway

import (
	"context"
	"time"
)

// SetSleep reemplaza la espera entre intentos (solo tests).
func (g *Gateway) SetSleep(fn func(ctx context.Context, d time.Duration) error) { g.sleep = fn }
