package component

import "fmt"

// #region base
// Base carries the registration state shared by every component variant.
// The resolver is a lookup reference only; a component never owns its circuit.
type Base struct {
	role     Role
	quantity int
	circuit  Resolver
}

func newBase() Base {
	return Base{role: Unassigned}
}

// Role returns the slot the component occupies, or Unassigned.
func (b *Base) Role() Role { return b.role }

// Quantity is the number of identical devices the registration stands for.
func (b *Base) Quantity() int { return b.quantity }

// Bind attaches the component to r in slot role.
func (b *Base) Bind(r Resolver, role Role, quantity int) {
	b.circuit = r
	b.role = role
	b.quantity = quantity
}

// Bound reports whether the component currently has a circuit.
func (b *Base) Bound() bool { return b.circuit != nil }

// Circuit returns the resolver the component is bound to, or nil.
func (b *Base) Circuit() Resolver { return b.circuit }

// CircuitParam asks the owning circuit for an operating condition of this component's role.
func (b *Base) CircuitParam(name Param) (float64, error) {
	if b.circuit == nil {
		return 0, fmt.Errorf("param %s: %w", name, ErrUnbound)
	}
	return b.circuit.Param(b.role, name)
}

// Unbind detaches the component from its circuit.
func (b *Base) Unbind() {
	b.circuit = nil
	b.role = Unassigned
	b.quantity = 0
}

// #endregion base

// #region helpers
func sumLosses(c Component) (float64, error) {
	var total float64
	for _, name := range c.LossNames() {
		v, err := c.Loss(name)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func hasLoss(names []LossName, name LossName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// #endregion helpers
