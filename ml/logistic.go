package ml

import (
	"encoding/json"
	"math"
	"os"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultC       = 1.0
	DefaultTol     = 1e-8
	DefaultMaxIter = 100

	armijo  = 1e-4
	minStep = 1e-12
)

// LogisticRegression is an L2-regularized binary classifier. The intercept is
// part of the penalized parameter vector, so the fitted model minimizes
//
//	0.5*|β|² + C * Σ log(1 + exp(-yᵢ βᵀ[xᵢ, 1]))
//
// with yᵢ in {-1, +1}.
type LogisticRegression struct {
	C          float64   `json:"c"`
	Tol        float64   `json:"tol"`
	MaxIter    int       `json:"max_iter"`
	Weights    []float64 `json:"weights"`
	Bias       float64   `json:"bias"`
	Iterations int       `json:"iterations"`
	Converged  bool      `json:"converged"`
}

func NewLogisticRegression(c float64, maxIter int, tol float64) *LogisticRegression {
	return &LogisticRegression{C: c, MaxIter: maxIter, Tol: tol}
}

// Train fits the model with damped Newton iterations.
func (m *LogisticRegression) Train(features [][]float64, labels []int) error {
	width, err := checkTrainingSet(features, labels)
	if err != nil {
		return err
	}
	if m.C <= 0 {
		m.C = DefaultC
	}
	if m.MaxIter <= 0 {
		m.MaxIter = DefaultMaxIter
	}
	if m.Tol <= 0 {
		m.Tol = DefaultTol
	}

	signs := make([]float64, len(labels))
	for i, label := range labels {
		signs[i] = float64(2*label - 1)
	}

	dim := width + 1
	beta := make([]float64, dim)
	candidate := make([]float64, dim)
	m.Iterations, m.Converged = 0, false
	for iter := 0; iter < m.MaxIter; iter++ {
		grad, hess := m.gradientHessian(features, signs, beta)
		if floats.Norm(grad, 2) <= m.Tol {
			m.Converged = true
			break
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(hess); !ok {
			return errors.New("hessian is not positive definite")
		}
		var step mat.VecDense
		if err := chol.SolveVecTo(&step, mat.NewVecDense(dim, grad)); err != nil {
			return errors.Annotate(err, "solve newton step")
		}
		direction := step.RawVector().Data

		if !m.lineSearch(features, signs, beta, grad, direction, candidate) {
			break
		}
		copy(beta, candidate)
		m.Iterations = iter + 1
	}
	if !m.Converged {
		grad, _ := m.gradientHessian(features, signs, beta)
		m.Converged = floats.Norm(grad, 2) <= m.Tol
	}

	m.Weights = append([]float64(nil), beta[:width]...)
	m.Bias = beta[width]
	return nil
}

// lineSearch halves the step beta - t*direction until the Armijo condition
// holds. It reports false, leaving candidate unusable, when no step down to
// minStep decreases the objective enough.
func (m *LogisticRegression) lineSearch(features [][]float64, signs, beta, grad, direction, candidate []float64) bool {
	current := m.objective(features, signs, beta)
	slope := floats.Dot(grad, direction)
	for t := 1.0; t >= minStep; t /= 2 {
		floats.AddScaledTo(candidate, beta, -t, direction)
		if m.objective(features, signs, candidate) <= current-armijo*t*slope {
			return true
		}
	}
	return false
}

func (m *LogisticRegression) DecisionFunction(features []float64) (float64, error) {
	if len(m.Weights) == 0 {
		return 0, errors.New("model not trained")
	}
	if len(features) != len(m.Weights) {
		return 0, errors.Errorf("expected %d features, got %d", len(m.Weights), len(features))
	}
	return floats.Dot(m.Weights, features) + m.Bias, nil
}

// PredictProba returns the probability of class 1.
func (m *LogisticRegression) PredictProba(features []float64) (float64, error) {
	z, err := m.DecisionFunction(features)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

// Predict returns the label and the probability assigned to it.
func (m *LogisticRegression) Predict(features []float64) (int, float64, error) {
	z, err := m.DecisionFunction(features)
	if err != nil {
		return 0, 0, err
	}
	p := sigmoid(z)
	if z > 0 {
		return 1, p, nil
	}
	return 0, 1 - p, nil
}

func (m *LogisticRegression) Save(path string) error {
	if len(m.Weights) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (m *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var model LogisticRegression
	if err := json.Unmarshal(payload, &model); err != nil {
		return errors.Annotatef(err, "decode %s", path)
	}
	if len(model.Weights) == 0 {
		return errors.Errorf("%s: model has no weights", path)
	}
	*m = model
	return nil
}

func (m *LogisticRegression) gradientHessian(features [][]float64, signs, beta []float64) ([]float64, *mat.SymDense) {
	dim := len(beta)
	grad := append([]float64(nil), beta...)
	hess := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		hess.SetSym(i, i, 1)
	}
	row := make([]float64, dim)
	row[dim-1] = 1
	for i, x := range features {
		copy(row, x)
		p := sigmoid(signs[i] * floats.Dot(beta, row))
		floats.AddScaled(grad, m.C*(p-1)*signs[i], row)
		w := m.C * p * (1 - p)
		for a := 0; a < dim; a++ {
			for b := a; b < dim; b++ {
				hess.SetSym(a, b, hess.At(a, b)+w*row[a]*row[b])
			}
		}
	}
	return grad, hess
}

func (m *LogisticRegression) objective(features [][]float64, signs, beta []float64) float64 {
	dim := len(beta)
	value := 0.5 * floats.Dot(beta, beta)
	row := make([]float64, dim)
	row[dim-1] = 1
	for i, x := range features {
		copy(row, x)
		value += m.C * logLoss(signs[i]*floats.Dot(beta, row))
	}
	return value
}

func checkTrainingSet(features [][]float64, labels []int) (int, error) {
	if len(features) == 0 || len(labels) == 0 {
		return 0, errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return 0, errors.New("features and labels size mismatch")
	}
	width := len(features[0])
	if width == 0 {
		return 0, errors.New("features have no columns")
	}
	var positives int
	for i, row := range features {
		if len(row) != width {
			return 0, errors.Errorf("row %d has %d columns, expected %d", i, len(row), width)
		}
		switch labels[i] {
		case 0:
		case 1:
			positives++
		default:
			return 0, errors.Errorf("row %d: label %d is not binary", i, labels[i])
		}
	}
	if positives == 0 || positives == len(labels) {
		return 0, errors.New("training data contains a single class")
	}
	return width, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logLoss computes log(1 + exp(-margin)) without overflow.
func logLoss(margin float64) float64 {
	if margin > 0 {
		return math.Log1p(math.Exp(-margin))
	}
	return -margin + math.Log1p(math.Exp(margin))
}
