package circuit

import (
	"fmt"
	"math"
	"sort"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region base
// Base is the registry and dispatch core embedded by every topology. The
// handler table is filled once by the topology constructor.
type Base struct {
	name      string
	po        float64
	fs        float64
	roleNames map[component.Role]string
	handlers  map[component.Param]Handler
	slots     map[component.Role]component.Component
	order     []component.Component
}

func newBase(name string, po, fs float64, roleNames map[component.Role]string) Base {
	return Base{
		name:      name,
		po:        po,
		fs:        fs,
		roleNames: roleNames,
		handlers:  make(map[component.Param]Handler),
		slots:     make(map[component.Role]component.Component),
	}
}

func (b *Base) handle(name component.Param, h Handler) {
	b.handlers[name] = h
}

func (b *Base) Name() string { return b.name }
func (b *Base) Po() float64  { return b.po }
func (b *Base) Fs() float64  { return b.fs }

// Roles returns the topology's roles in ascending order.
func (b *Base) Roles() []component.Role {
	roles := make([]component.Role, 0, len(b.roleNames))
	for r := range b.roleNames {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (b *Base) RoleName(role component.Role) string {
	if n, ok := b.roleNames[role]; ok {
		return n
	}
	return fmt.Sprintf("role%d", role)
}

// #endregion base

// #region registry
// Register places c in role, replacing whatever occupied it. A component
// already registered elsewhere in this circuit moves to the new role; one
// registered in another circuit is removed from it first.
func (b *Base) Register(c component.Component, role component.Role, quantity int) error {
	if c == nil {
		return fmt.Errorf("%s: register %s: nil component", b.name, b.RoleName(role))
	}
	if _, ok := b.roleNames[role]; !ok {
		return fmt.Errorf("%s: register %s: unknown role %d", b.name, c.ID(), role)
	}
	if quantity < 1 {
		return fmt.Errorf("%s: register %s: quantity must be >= 1, got %d", b.name, c.ID(), quantity)
	}

	if prev, ok := c.Circuit().(*Base); ok && prev != b {
		prev.detach(c)
	}

	kept := b.order[:0]
	for _, existing := range b.order {
		if existing == c {
			delete(b.slots, existing.Role())
			continue
		}
		if existing.Role() == role {
			existing.Unbind()
			continue
		}
		kept = append(kept, existing)
	}
	b.order = kept

	c.Bind(b, role, quantity)
	b.slots[role] = c
	b.order = append(b.order, c)
	return nil
}

// detach drops c from the registry without unbinding it.
func (b *Base) detach(c component.Component) {
	kept := b.order[:0]
	for _, existing := range b.order {
		if existing != c {
			kept = append(kept, existing)
		}
	}
	b.order = kept
	if b.slots[c.Role()] == c {
		delete(b.slots, c.Role())
	}
}

func (b *Base) Component(role component.Role) (component.Component, bool) {
	c, ok := b.slots[role]
	return c, ok
}

// Components returns the registered components in registration order.
func (b *Base) Components() []component.Component {
	out := make([]component.Component, len(b.order))
	copy(out, b.order)
	return out
}

// #endregion registry

// #region dispatch
// Param resolves an operating condition through the handler table.
func (b *Base) Param(role component.Role, name component.Param) (float64, error) {
	h, ok := b.handlers[name]
	if !ok {
		return 0, &component.UnsupportedParamError{Circuit: b.name, Role: role, Param: name}
	}
	return h(role)
}

// Supports reports whether the topology defines name.
func (b *Base) Supports(name component.Param) bool {
	_, ok := b.handlers[name]
	return ok
}

// Params lists the supported operating conditions, sorted.
func (b *Base) Params() []component.Param {
	out := make([]component.Param, 0, len(b.handlers))
	for p := range b.handlers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// #endregion dispatch

// #region aggregation
func (b *Base) owns(c component.Component) error {
	if c == nil {
		return fmt.Errorf("%s: nil component", b.name)
	}
	if reg, ok := b.slots[c.Role()]; !ok || reg != c || c.Circuit() != component.Resolver(b) {
		return fmt.Errorf("%s: component %s is not registered", b.name, c.ID())
	}
	return nil
}

// LossBy is one named loss of c times its registered quantity.
func (b *Base) LossBy(c component.Component, name component.LossName) (float64, error) {
	if err := b.owns(c); err != nil {
		return 0, err
	}
	v, err := c.Loss(name)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", b.RoleName(c.Role()), name, err)
	}
	return v * float64(c.Quantity()), nil
}

// LossBreakdown returns each named loss of one device of c.
func (b *Base) LossBreakdown(c component.Component) (map[component.LossName]float64, error) {
	if err := b.owns(c); err != nil {
		return nil, err
	}
	out := make(map[component.LossName]float64, len(c.LossNames()))
	for _, name := range c.LossNames() {
		v, err := c.Loss(name)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", b.RoleName(c.Role()), name, err)
		}
		out[name] = v
	}
	return out, nil
}

// LossOnComponent is quantity times the sum of c's losses.
func (b *Base) LossOnComponent(c component.Component) (float64, error) {
	bd, err := b.LossBreakdown(c)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, v := range bd {
		sum += v
	}
	return sum * float64(c.Quantity()), nil
}

// TotalLoss sums loss*quantity over every registered component.
func (b *Base) TotalLoss() (float64, error) {
	var total float64
	for _, c := range b.order {
		v, err := b.LossOnComponent(c)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Efficiency is po/(po+total loss).
func (b *Base) Efficiency() (float64, error) {
	total, err := b.TotalLoss()
	if err != nil {
		return 0, err
	}
	return b.po / (b.po + total), nil
}

// #endregion aggregation

// #region validation
func positive(circuit, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &InvalidTopologyError{Circuit: circuit, Field: field, Reason: fmt.Sprintf("must be positive and finite, got %g", v)}
	}
	return nil
}

func unsupported(circuit string, role component.Role, name component.Param) error {
	return &component.UnsupportedParamError{Circuit: circuit, Role: role, Param: name}
}

// #endregion validation
