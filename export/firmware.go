package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/juju/errors"
)

const DefaultGuard = "MODEL_PARAMS_H"

// Params are the values firmware needs to reproduce a prediction: the
// classifier weights and bias plus the standardization applied beforehand.
type Params struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func (p Params) Validate() error {
	if len(p.Weights) == 0 {
		return errors.New("no weights")
	}
	if len(p.Mean) != len(p.Weights) || len(p.Scale) != len(p.Weights) {
		return errors.Errorf("weights, mean and scale lengths differ: %d, %d, %d",
			len(p.Weights), len(p.Mean), len(p.Scale))
	}
	values := append(append(append([]float64{p.Bias}, p.Weights...), p.Mean...), p.Scale...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("parameter %v is not finite", v)
		}
	}
	for _, s := range p.Scale {
		if s == 0 {
			return errors.New("scale must not be zero")
		}
	}
	return nil
}

// Declarations renders the C constant declarations, one per line.
func (p Params) Declarations() []string {
	return []string{
		fmt.Sprintf("const float MODEL_W[%d] = %s;", len(p.Weights), floatArray(p.Weights)),
		fmt.Sprintf("const float MODEL_B = %s;", floatLiteral(p.Bias)),
		fmt.Sprintf("const float SCALER_MEAN[%d] = %s;", len(p.Mean), floatArray(p.Mean)),
		fmt.Sprintf("const float SCALER_SCALE[%d] = %s;", len(p.Scale), floatArray(p.Scale)),
	}
}

// WriteConstants prints the block meant to be pasted into a sketch.
func WriteConstants(w io.Writer, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("\n=== Arduino-friendly C constants ===\n")
	b.WriteString("// paste these into your Arduino sketch or into a model_params.h file\n")
	for _, line := range p.Declarations() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return errors.Trace(err)
}

// WriteHeader writes a self-contained header file guarded by guard.
func WriteHeader(w io.Writer, p Params, guard string, comments ...string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if guard == "" {
		guard = DefaultGuard
	}
	var b strings.Builder
	for _, comment := range comments {
		fmt.Fprintf(&b, "// %s\n", comment)
	}
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	for _, line := range p.Declarations() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n#endif // %s\n", guard)
	_, err := io.WriteString(w, b.String())
	return errors.Trace(err)
}

// Infer evaluates the model in single precision, the way the firmware does
// with the exported constants.
func (p Params) Infer(x []float32) (float32, int, error) {
	if len(x) != len(p.Weights) {
		return 0, 0, errors.Errorf("expected %d features, got %d", len(p.Weights), len(x))
	}
	z := float32(p.Bias)
	for i, v := range x {
		scaled := (v - float32(p.Mean[i])) / float32(p.Scale[i])
		z += float32(p.Weights[i]) * scaled
	}
	prob := 1 / (1 + float32(math.Exp(float64(-z))))
	if z > 0 {
		return prob, 1, nil
	}
	return prob, 0, nil
}

func floatLiteral(v float64) string {
	return fmt.Sprintf("%.8ff", v)
}

func floatArray(values []float64) string {
	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = floatLiteral(v)
	}
	return "{" + strings.Join(literals, ", ") + "}"
}
