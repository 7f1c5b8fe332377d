package predictor

import (
	"os"
	"strconv"
	"time"
)

// PredictMethod is the full gRPC method name of the loss predictor service.
const PredictMethod = "/powertoys.LossPredictor/Predict"

// #region config

// Config holds loss predictor connection and fallback parameters.
type Config struct {
	Addr      string        // empty selects the closed-form fallback
	Timeout   time.Duration // per call
	CacheSize int           // 0 disables caching
	Steinmetz SteinmetzParams
}

// DefaultConfig returns default predictor configuration.
// Reads from env vars: PREDICTOR_ADDR, PREDICTOR_TIMEOUT (seconds),
// PREDICTOR_CACHE, PREDICTOR_AMBIENT.
func DefaultConfig() Config {
	cfg := Config{
		Timeout:   5 * time.Second,
		CacheSize: 4096,
		Steinmetz: DefaultSteinmetz(),
	}
	if v := os.Getenv("PREDICTOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PREDICTOR_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Timeout = time.Duration(sec) * time.Second
		}
	}
	if v := os.Getenv("PREDICTOR_CACHE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheSize = n
		}
	}
	if v := os.Getenv("PREDICTOR_AMBIENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Steinmetz.Ambient = f
		}
	}
	return cfg
}

// #endregion config
