package circuit

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/power-toys/internal/component"
	"github.com/danielpatrickdp/power-toys/internal/optimize"
)

// ErrInvalidTopology is matched by every InvalidTopologyError.
var ErrInvalidTopology = errors.New("invalid topology parameter")

// InvalidTopologyError rejects a topology value that makes the closed-form
// equations undefined.
type InvalidTopologyError struct {
	Circuit string
	Field   string
	Reason  string
}

func (e *InvalidTopologyError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Circuit, e.Field, e.Reason)
}

func (e *InvalidTopologyError) Unwrap() error { return ErrInvalidTopology }

// Handler computes one operating condition for a role.
type Handler func(role component.Role) (float64, error)

// Circuit is the query and exploration surface shared by all topologies.
type Circuit interface {
	component.Resolver
	Name() string
	Register(c component.Component, role component.Role, quantity int) error
	Component(role component.Role) (component.Component, bool)
	Components() []component.Component
	Roles() []component.Role
	RoleName(role component.Role) string
	Supports(name component.Param) bool

	LossBy(c component.Component, name component.LossName) (float64, error)
	LossBreakdown(c component.Component) (map[component.LossName]float64, error)
	LossOnComponent(c component.Component) (float64, error)
	TotalLoss() (float64, error)
	Efficiency() (float64, error)

	Po() float64
	Fs() float64
	SetFs(fs float64) error
	WithFs(fs float64) (Circuit, error)
	WithPo(po float64) (Circuit, error)
	Clone() Circuit

	// OptimizeByRdson returns a copy with every switch replaced by its
	// rdson-optimal equivalent.
	OptimizeByRdson() (Circuit, []optimize.Result, error)
	// OptimizeByFs returns a copy at the loss-minimizing switching frequency.
	OptimizeByFs() (Circuit, optimize.Result, error)
}
