package lap

import (
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Predictor estimates a single coordinate's value at a query time from the
// coordinate's observation history. Any method producing a point estimate
// plus a variance-like uncertainty from irregular time samples satisfies
// the contract; the frame linker only consumes the estimate.
type Predictor interface {
	Predict(times, values []float64, queryTime float64) (estimate, mse float64, err error)
}

// RegressionPredictor fits a weighted polynomial regression to a
// coordinate's history. Each sample is weighted by the inverse of a noise
// term (sigma / (|value| + sigma))^2, so larger sigma discounts noisy or
// small observations more.
type RegressionPredictor struct {
	Sigma  float64
	Degree int
	Ridge  float64
}

// NewRegressionPredictor creates the default position predictor.
func NewRegressionPredictor(sigma float64, opts PredictorOptions) *RegressionPredictor {
	return &RegressionPredictor{
		Sigma:  sigma,
		Degree: opts.Degree,
		Ridge:  opts.Ridge,
	}
}

// Predict returns the fitted polynomial's value at queryTime and the
// predictive mean squared error.
func (p *RegressionPredictor) Predict(times, values []float64, queryTime float64) (float64, float64, error) {
	n := len(times)
	if n == 0 || n != len(values) {
		return 0, 0, errors.Errorf("invalid history: %d times, %d values", n, len(values))
	}
	deg := p.Degree
	if deg > n-1 {
		deg = n - 1
	}
	k := deg + 1

	phi := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for j := 0; j < k; j++ {
			phi.Set(i, j, v)
			v *= times[i]
		}
	}
	weights := make([]float64, n)
	for i, y := range values {
		nugget := p.Sigma / (math.Abs(y) + p.Sigma)
		weights[i] = 1 / (nugget * nugget)
	}

	// Normal equations (phi' W phi + ridge I) theta = phi' W y.
	lhs := mat.NewDense(k, k, nil)
	rhs := mat.NewVecDense(k, nil)
	for i := 0; i < n; i++ {
		for a := 0; a < k; a++ {
			pa := phi.At(i, a)
			rhs.SetVec(a, rhs.AtVec(a)+weights[i]*pa*values[i])
			for b := 0; b < k; b++ {
				lhs.Set(a, b, lhs.At(a, b)+weights[i]*pa*phi.At(i, b))
			}
		}
	}
	for a := 0; a < k; a++ {
		lhs.Set(a, a, lhs.At(a, a)+p.Ridge)
	}

	var theta mat.VecDense
	if err := theta.SolveVec(lhs, rhs); err != nil {
		return 0, 0, errors.Wrap(err, "can't fit coordinate regression")
	}

	phiQ := mat.NewVecDense(k, nil)
	v := 1.0
	for j := 0; j < k; j++ {
		phiQ.SetVec(j, v)
		v *= queryTime
	}
	estimate := mat.Dot(phiQ, &theta)

	// Residual variance and leverage at the query point give a
	// variance-like predictive MSE. With an exact fit the residuals (and
	// the MSE) are zero.
	dof := n - k
	if dof <= 0 {
		return estimate, 0, nil
	}
	ss := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < k; j++ {
			fitted += theta.AtVec(j) * phi.At(i, j)
		}
		r := values[i] - fitted
		ss += weights[i] * r * r
	}
	s2 := ss / float64(dof)

	var leverage mat.VecDense
	if err := leverage.SolveVec(lhs, phiQ); err != nil {
		return estimate, s2, nil
	}
	return estimate, s2 * (1 + mat.Dot(phiQ, &leverage)), nil
}

// KalmanPredictor estimates positions with a constant-velocity Kalman
// filter run over the coordinate's history. The filter operates on a fixed
// time step, so irregular histories are resampled to their mean spacing;
// it reports a zero MSE (point estimate only).
type KalmanPredictor struct {
	// Process and measurement noise, in the units of the coordinate.
	StdDevAcceleration float64
	StdDevMeasurement  float64
}

// NewKalmanPredictor creates a Kalman position predictor with default
// noise magnitudes.
func NewKalmanPredictor() *KalmanPredictor {
	return &KalmanPredictor{
		StdDevAcceleration: 2.0,
		StdDevMeasurement:  0.1,
	}
}

// Predict filters the history and extrapolates to queryTime.
func (p *KalmanPredictor) Predict(times, values []float64, queryTime float64) (float64, float64, error) {
	n := len(times)
	if n < 2 || n != len(values) {
		return 0, 0, errors.Errorf("invalid history: %d times, %d values", n, len(values))
	}
	dt := (times[n-1] - times[0]) / float64(n-1)
	if dt <= 0 {
		return 0, 0, errors.Errorf("history times must be strictly increasing")
	}

	kf := kalman_filter.NewKalman2D(
		dt, 0.0, 0.0,
		p.StdDevAcceleration, p.StdDevMeasurement, p.StdDevMeasurement,
		kalman_filter.WithState2D(values[0], 0.0),
	)
	for i := 1; i < n; i++ {
		kf.Predict()
		if err := kf.Update(values[i], 0.0); err != nil {
			return 0, 0, errors.Wrap(err, "can't update coordinate filter")
		}
	}
	steps := int(math.Round((queryTime - times[n-1]) / dt))
	if steps < 1 {
		steps = 1
	}
	for s := 0; s < steps; s++ {
		kf.Predict()
	}
	estimate, _ := kf.GetState()
	return estimate, 0, nil
}
