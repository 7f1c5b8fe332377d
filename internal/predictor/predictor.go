package predictor

import (
	"log"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// New builds the predictor described by cfg: the gRPC client when an address
// is set, otherwise the Steinmetz fallback over parts. The returned close
// function releases the connection, if any.
func New(cfg Config, parts InductorSource) (component.LossPredictor, func() error, error) {
	var (
		p       component.LossPredictor
		closeFn = func() error { return nil }
	)
	if cfg.Addr != "" {
		c, err := NewClient(cfg.Addr, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		p, closeFn = c, c.Close
		log.Printf("predictor: using service at %s", cfg.Addr)
	} else {
		p = NewSteinmetz(cfg.Steinmetz, parts)
	}
	if cfg.CacheSize > 0 {
		p = NewCache(p, cfg.CacheSize)
	}
	return p, closeFn, nil
}
