// Package rdefault registers every resizer backend and selects the box filter
// unless another one is asked for by name.
package rdefault

import (
	"strings"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/resize"
	_ "github.com/srlehn/boxscale/resize/bild"
	"github.com/srlehn/boxscale/resize/box"
	_ "github.com/srlehn/boxscale/resize/caire"
	_ "github.com/srlehn/boxscale/resize/gift"
	_ "github.com/srlehn/boxscale/resize/imaging"
	_ "github.com/srlehn/boxscale/resize/nfnt"
	_ "github.com/srlehn/boxscale/resize/rez"
	_ "github.com/srlehn/boxscale/resize/xdraw"
)

// Resizer returns the default resizer, the area-weighted box filter.
func Resizer() resize.Resizer { return box.Default() }

// Get returns the resizer registered under name.
// An empty name or "default" selects the box filter.
func Get(name string) (resize.Resizer, error) {
	switch strings.TrimSpace(name) {
	case ``, `default`, consts.ResizerDefaultName:
		return Resizer(), nil
	}
	return resize.Get(name)
}

// Names lists all registered resizers.
func Names() []string { return resize.Names() }
