package lap

import "github.com/pkg/errors"

// PredictorOptions are forwarded verbatim to the position predictor.
type PredictorOptions struct {
	// Degree of the regression polynomial fitted to each coordinate's
	// history. Clamped to the available number of samples. Default 2.
	Degree int
	// Ridge is a small regularization term added to the normal equations
	// to keep near-collinear histories solvable. Default 1e-9.
	Ridge float64
}

// Config is the closed set of recognized tracking options. Unknown keys in
// a parameter map are a construction-time error, not silently accepted.
type Config struct {
	// MaxDisp is the maximum per-unit-time displacement gating linking.
	// The admissible linking radius between two frames grows linearly
	// with the elapsed time. Default 0.1.
	MaxDisp float64
	// WindowGap is the maximum frame gap bridgeable by gap closing.
	// Default 10.
	WindowGap float64
	// Sigma is the predictor noise-scale parameter: larger values
	// discount noisy or small observations more. Default 1.0.
	Sigma float64
	// NDims selects the coordinate set: 2 for (x, y), 3 for (x, y, z).
	// Default 3.
	NDims int
	// Predict enables trajectory-aware position prediction during
	// frame-to-frame linking. Default false.
	Predict bool
	// Predictor holds options forwarded to the position predictor.
	Predictor PredictorOptions
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxDisp:   0.1,
		WindowGap: 10,
		Sigma:     1.0,
		NDims:     3,
		Predict:   false,
		Predictor: PredictorOptions{
			Degree: 2,
			Ridge:  1e-9,
		},
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.NDims != 2 && c.NDims != 3 {
		return errors.Errorf("ndims must be 2 or 3, got %d", c.NDims)
	}
	if c.MaxDisp <= 0 {
		return errors.Errorf("max_disp must be positive, got %v", c.MaxDisp)
	}
	if c.WindowGap <= 0 {
		return errors.Errorf("window_gap must be positive, got %v", c.WindowGap)
	}
	if c.Sigma <= 0 {
		return errors.Errorf("sigma must be positive, got %v", c.Sigma)
	}
	if c.Predictor.Degree < 1 {
		return errors.Errorf("predictor degree must be at least 1, got %d", c.Predictor.Degree)
	}
	return nil
}

// ConfigFromMap builds a Config from a loose parameter mapping, starting
// from the defaults. Recognized keys: max_disp, window_gap, sigma, ndims,
// predict, predictor_options (itself a map with degree and ridge). Any
// unknown key is an error.
func ConfigFromMap(params map[string]any) (Config, error) {
	cfg := DefaultConfig()
	for key, value := range params {
		switch key {
		case "max_disp":
			v, err := toFloat(value)
			if err != nil {
				return Config{}, errors.Wrap(err, "max_disp")
			}
			cfg.MaxDisp = v
		case "window_gap":
			v, err := toFloat(value)
			if err != nil {
				return Config{}, errors.Wrap(err, "window_gap")
			}
			cfg.WindowGap = v
		case "sigma":
			v, err := toFloat(value)
			if err != nil {
				return Config{}, errors.Wrap(err, "sigma")
			}
			cfg.Sigma = v
		case "ndims":
			v, err := toFloat(value)
			if err != nil {
				return Config{}, errors.Wrap(err, "ndims")
			}
			cfg.NDims = int(v)
		case "predict":
			b, ok := value.(bool)
			if !ok {
				return Config{}, errors.Errorf("predict must be a bool, got %T", value)
			}
			cfg.Predict = b
		case "predictor_options":
			sub, ok := value.(map[string]any)
			if !ok {
				return Config{}, errors.Errorf("predictor_options must be a map, got %T", value)
			}
			for subKey, subValue := range sub {
				switch subKey {
				case "degree":
					v, err := toFloat(subValue)
					if err != nil {
						return Config{}, errors.Wrap(err, "predictor_options.degree")
					}
					cfg.Predictor.Degree = int(v)
				case "ridge":
					v, err := toFloat(subValue)
					if err != nil {
						return Config{}, errors.Wrap(err, "predictor_options.ridge")
					}
					cfg.Predictor.Ridge = v
				default:
					return Config{}, errors.Errorf("unknown predictor option %q", subKey)
				}
			}
		default:
			return Config{}, errors.Errorf("unknown tracking option %q", key)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Errorf("expected a number, got %T", value)
	}
}
