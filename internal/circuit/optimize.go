package circuit

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/optimize"
)

// #region opt-rdson
// optimizeRdson optimizes each switch of src in its own operating point and
// registers the equivalents into a clone of src.
func optimizeRdson(src Circuit, quantity func(role component.Role, current int) int) (Circuit, []optimize.Result, error) {
	dst := src.Clone()
	var results []optimize.Result
	for _, role := range src.Roles() {
		c, ok := src.Component(role)
		if !ok {
			continue
		}
		sw, ok := c.(*component.Switch)
		if !ok {
			continue
		}
		opt, res, err := sw.Optimized()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: optimize %s: %w", src.Name(), src.RoleName(role), err)
		}
		if !res.Converged {
			log.Printf("%s: %s rdson search did not converge, using %g", src.Name(), src.RoleName(role), res.X)
		}
		if err := dst.Register(opt, role, quantity(role, sw.Quantity())); err != nil {
			return nil, nil, err
		}
		results = append(results, res)
	}
	return dst, results, nil
}

// #endregion opt-rdson

// #region opt-fs
// optimizeFs searches [fs/100, fs*100] for the lowest total loss. Saturated
// or topologically invalid candidates count as infinite loss.
func optimizeFs(src Circuit) (Circuit, optimize.Result, error) {
	objective := func(fs float64) (float64, error) {
		cand, err := src.WithFs(fs)
		if errors.Is(err, ErrInvalidTopology) {
			return math.Inf(1), nil
		}
		if err != nil {
			return 0, err
		}
		loss, err := cand.TotalLoss()
		if errors.Is(err, component.ErrSaturated) {
			return math.Inf(1), nil
		}
		return loss, err
	}
	res, err := optimize.GoldenSection(objective, src.Fs(), optimize.DefaultConfig())
	if err != nil {
		return nil, res, fmt.Errorf("%s: optimize fs: %w", src.Name(), err)
	}
	out, err := src.WithFs(res.X)
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}

// #endregion opt-fs
