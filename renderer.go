package dieselctx

import (
	"log/slog"

	"github.com/andewx/dieselctx/driver"
)

// Renderer owns the GraphicsContext of one window and tracks the window's
// framebuffer extent. It does not draw yet.
type Renderer struct {
	ctx           *GraphicsContext
	width, height int
}

// NewRenderer creates the graphics context for win.
func NewRenderer(cfg Config, loader driver.Loader, win Window, log *slog.Logger) (*Renderer, error) {
	ctx, err := NewGraphicsContext(cfg, loader, win, log)
	if err != nil {
		return nil, err
	}
	w, h := win.Size()
	return &Renderer{ctx: ctx, width: w, height: h}, nil
}

func (r *Renderer) Context() *GraphicsContext { return r.ctx }

// Resize records a new framebuffer extent.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// Extent gets the last known framebuffer extent.
func (r *Renderer) Extent() (width, height int) {
	return r.width, r.height
}

// Destroy releases the graphics context.
func (r *Renderer) Destroy() {
	r.ctx.Destroy()
}
