package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"fwmodel/logging"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	DefaultDataPath = "sensor_data.csv"
	DefaultEncoding = "utf-8"
)

// RequiredColumns lists the header names a data file must provide: the
// NumFeatures feature columns followed by the label.
var RequiredColumns = []string{"f1", "f2", "label"}

const NumFeatures = 2

var ErrMissingColumns = errors.New("missing required columns 'f1','f2','label'")

// Options controls where LoadOrGenerate looks for data and how it falls back.
type Options struct {
	Path     string
	Encoding string
	Samples  int
	Seed     uint64
}

func DefaultOptions() Options {
	return Options{
		Path:     DefaultDataPath,
		Encoding: DefaultEncoding,
		Samples:  DefaultSamples,
		Seed:     DefaultSyntheticSeed,
	}
}

// LoadOrGenerate reads opts.Path when it exists and carries the required
// columns, otherwise it generates a synthetic dataset. Progress notices are
// written to out.
func LoadOrGenerate(opts Options, out io.Writer) (*Dataset, error) {
	if opts.Path != "" {
		_, err := os.Stat(opts.Path)
		switch {
		case err == nil:
			dataset, err := LoadCSV(opts.Path, opts.Encoding)
			if err == nil {
				fmt.Fprintln(out, "Loaded", dataset.Len(), "rows from", opts.Path)
				logging.Logger().Info("load dataset",
					zap.String("path", opts.Path),
					zap.Int("rows", dataset.Len()))
				return dataset, nil
			}
			if !errors.Is(err, ErrMissingColumns) {
				return nil, errors.Annotatef(err, "load %s", opts.Path)
			}
			fmt.Fprintln(out, "CSV found but missing required columns 'f1','f2','label'. Generating synthetic data.")
			logging.Logger().Warn("dataset missing required columns",
				zap.String("path", opts.Path),
				zap.Strings("required", RequiredColumns))
		case os.IsNotExist(err):
			logging.Logger().Debug("dataset not found", zap.String("path", opts.Path))
		default:
			return nil, errors.Annotatef(err, "stat %s", opts.Path)
		}
	}

	dataset := GenerateSynthetic(opts.Samples, opts.Seed)
	fmt.Fprintf(out, "Generated synthetic dataset with %d samples.\n", dataset.Len())
	logging.Logger().Info("generate synthetic dataset",
		zap.Int("samples", dataset.Len()),
		zap.Uint64("seed", opts.Seed))
	return dataset, nil
}

// LoadCSV parses a data file whose header contains f1, f2 and label. Other
// columns are ignored and the column order is free.
func LoadCSV(path, encodingName string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	dataset, err := ReadCSV(file, encodingName)
	if err != nil {
		return nil, err
	}
	dataset.Path = path
	return dataset, nil
}

func ReadCSV(r io.Reader, encodingName string) (*Dataset, error) {
	decoder, err := newDecoder(encodingName)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	} else if err != nil {
		return nil, errors.Annotate(err, "read header")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exist := columns[name]; !exist {
			columns[name] = i
		}
	}
	indices := make([]int, len(RequiredColumns))
	for i, name := range RequiredColumns {
		idx, ok := columns[name]
		if !ok {
			return nil, ErrMissingColumns
		}
		indices[i] = idx
	}

	dataset := &Dataset{Source: SourceFile}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Annotatef(err, "line %d", line)
		}
		f1, err := parseFeature(record[indices[0]])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: column f1", line)
		}
		f2, err := parseFeature(record[indices[1]])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: column f2", line)
		}
		label, err := parseLabel(record[indices[2]])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: column label", line)
		}
		dataset.Features = append(dataset.Features, []float64{f1, f2})
		dataset.Labels = append(dataset.Labels, label)
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return dataset, nil
}

func newDecoder(name string) (transform.Transformer, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.NotValidf("encoding %q", name)
	}
	// Spreadsheet exports often start with a byte order mark.
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

func parseFeature(cell string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Errorf("value %q is not finite", cell)
	}
	return value, nil
}

func parseLabel(cell string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, errors.Trace(err)
	}
	switch value {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, errors.Errorf("label %q is not 0 or 1", cell)
	}
}
