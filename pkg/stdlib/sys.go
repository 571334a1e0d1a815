package stdlib

import (
	"time"

	"github.com/lemonberrylabs/golox/pkg/types"
)

// now is replaced in tests.
var now = time.Now

// registerSys registers the host clock.
func (r *Registry) registerSys() {
	r.Register("clock", 0, clock)
}

// clock returns seconds since the Unix epoch with sub-second precision.
func clock(_ []types.Value) (types.Value, error) {
	return types.NewNumber(float64(now().UnixNano()) / 1e9), nil
}
