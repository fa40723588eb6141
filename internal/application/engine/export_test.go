package engine

import "github.com/jhoicas/farma-analytics/internal/application/store"

// Guard expone guard para probar la recuperación de pánicos.
func Guard(e *Engine, fn func()) string {
	return guard(e, "test", func() string { return "vacío" }, func(*store.Snapshot) string {
		fn()
		return "ok"
	})
}
