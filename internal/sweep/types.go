package sweep

// Axis names the swept circuit parameter.
type Axis string

const (
	AxisFs Axis = "fs"
	AxisPo Axis = "po"
)

// Label is the axis caption with its unit.
func (a Axis) Label() string {
	switch a {
	case AxisFs:
		return "fs [Hz]"
	case AxisPo:
		return "Po [W]"
	}
	return string(a)
}

// Status of one sweep point.
type Status string

const (
	StatusOK        Status = "ok"
	StatusSaturated Status = "saturated"
	StatusInvalid   Status = "invalid"
)

// Point is one evaluated circuit. Loss fields are zero unless Status is ok.
type Point struct {
	X          float64
	TotalLoss  float64
	Efficiency float64
	RoleLoss   []float64 // aligned with Result.Roles
	Status     Status
	Reason     string
}

// Result is an ordered sweep over one axis.
type Result struct {
	Topology string
	Axis     Axis
	Roles    []string
	Points   []Point
}
