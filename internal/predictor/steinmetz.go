package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/danielpatrickdp/power-toys/internal/catalog"
	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region params
// SteinmetzParams fit AC loss as K * f^Alpha * ripple^Beta (f in Hz, ripple
// in A peak-to-peak). Temperature rise is Rth times total loss.
type SteinmetzParams struct {
	K       float64
	Alpha   float64
	Beta    float64
	Ambient float64 // degC
	Rth     float64 // degC/W
}

// DefaultSteinmetz is a generic fit for molded power inductors around 100kHz-1MHz.
func DefaultSteinmetz() SteinmetzParams {
	return SteinmetzParams{K: 5e-8, Alpha: 1.1, Beta: 2.0, Ambient: 25, Rth: 40}
}

// #endregion params

// #region steinmetz
// InductorSource resolves a part id to its catalog row.
type InductorSource interface {
	FindInductor(id string) (catalog.InductorRecord, error)
}

// Steinmetz is a closed-form predictor used when no surrogate service is
// configured. DC loss comes from the catalog DCR.
type Steinmetz struct {
	params SteinmetzParams
	parts  InductorSource
}

func NewSteinmetz(p SteinmetzParams, parts InductorSource) *Steinmetz {
	return &Steinmetz{params: p, parts: parts}
}

func (s *Steinmetz) Predict(_ context.Context, q component.Query) (component.Prediction, error) {
	rec, err := s.parts.FindInductor(q.PartID)
	if err != nil {
		return component.Prediction{}, fmt.Errorf("steinmetz: %w", err)
	}
	if q.Frequency <= 0 || q.Ripple < 0 {
		return component.Prediction{}, fmt.Errorf("steinmetz: invalid operating point f=%g ripple=%g", q.Frequency, q.Ripple)
	}
	if rec.Isat > 0 && q.DC+q.Ripple/2 > rec.Isat {
		return component.Prediction{Saturated: true}, nil
	}

	// every stacked part carries the full current and ripple
	rms2 := q.DC*q.DC + q.Ripple*q.Ripple/12
	dc := rec.DCR * rms2
	ac := s.params.K * math.Pow(q.Frequency, s.params.Alpha) * math.Pow(q.Ripple, s.params.Beta)
	n := float64(q.Parts())
	return component.Prediction{
		DCLoss:      dc * n,
		ACLoss:      ac * n,
		Temperature: s.params.Ambient + s.params.Rth*(dc+ac),
	}, nil
}

// #endregion steinmetz
