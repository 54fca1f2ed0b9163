package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
)

// Model is the serialized result of a training run.
type Model struct {
	Features      []string  `json:"features"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`
	Means         []float64 `json:"means"`
	StdDevs       []float64 `json:"stddevs"`
	TrainAccuracy float64   `json:"train_accuracy"`
	TestAccuracy  float64   `json:"test_accuracy"`
	TrainedAt     time.Time `json:"trained_at"`
}

// Trainer fits a logistic-regression churn model on the transformed
// dataset with batch gradient descent over standardized features.
type Trainer struct {
	InPath    string
	ModelPath string
	Label     string
	IDColumn  string

	Epochs       int
	LearningRate float64
	Seed         int64
}

func NewTrainer(inPath, modelPath, label, idColumn string) *Trainer {
	return &Trainer{
		InPath:       inPath,
		ModelPath:    modelPath,
		Label:        label,
		IDColumn:     idColumn,
		Epochs:       300,
		LearningRate: 0.1,
		Seed:         42,
	}
}

func (t *Trainer) Run(ctx context.Context) error {
	batch, err := dataset.ReadCSV(t.InPath)
	if err != nil {
		return fmt.Errorf("model building failed, transformed dataset unavailable: %w", err)
	}

	model, err := t.Train(batch)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.ModelPath), 0755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.ModelPath, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write model '%s': %w", t.ModelPath, err)
	}
	logger.Infof("[MODEL] Model saved at: %s", t.ModelPath)
	return nil
}

// Train fits the model in memory.
func (t *Trainer) Train(batch *dataset.Batch) (*Model, error) {
	if !batch.HasColumn(t.Label) {
		return nil, fmt.Errorf("label column %q not in dataset", t.Label)
	}

	var features []string
	for _, col := range batch.Columns {
		if col == t.Label || col == t.IDColumn {
			continue
		}
		features = append(features, col)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no feature columns in dataset")
	}

	// Build the design matrix; rows with unparseable cells are skipped.
	var x [][]float64
	var y []float64
	for i := range batch.Rows {
		label, ok := batch.Cell(i, t.Label).Float()
		if !ok {
			continue
		}
		row := make([]float64, len(features))
		usable := true
		for j, col := range features {
			f, ok := batch.Cell(i, col).Float()
			if !ok {
				usable = false
				break
			}
			row[j] = f
		}
		if usable {
			x = append(x, row)
			y = append(y, label)
		}
	}
	if len(x) < 10 {
		return nil, fmt.Errorf("not enough usable rows to train: %d", len(x))
	}

	means, stddevs, err := standardize(x, features)
	if err != nil {
		return nil, err
	}

	// Deterministic shuffled 80/20 split.
	rng := rand.New(rand.NewSource(t.Seed))
	perm := rng.Perm(len(x))
	split := len(x) * 8 / 10
	trainX, trainY := subset(x, y, perm[:split])
	testX, testY := subset(x, y, perm[split:])

	weights := make([]float64, len(features))
	bias := 0.0
	n := float64(len(trainX))

	for epoch := 0; epoch < t.Epochs; epoch++ {
		gradW := make([]float64, len(features))
		gradB := 0.0
		for i, row := range trainX {
			p := sigmoid(dot(weights, row) + bias)
			errTerm := p - trainY[i]
			for j, f := range row {
				gradW[j] += errTerm * f
			}
			gradB += errTerm
		}
		for j := range weights {
			weights[j] -= t.LearningRate * gradW[j] / n
		}
		bias -= t.LearningRate * gradB / n
	}

	model := &Model{
		Features:      features,
		Weights:       weights,
		Bias:          bias,
		Means:         means,
		StdDevs:       stddevs,
		TrainAccuracy: accuracy(weights, bias, trainX, trainY),
		TestAccuracy:  accuracy(weights, bias, testX, testY),
		TrainedAt:     time.Now().UTC(),
	}
	logger.Infof("[MODEL] Trained on %d rows, tested on %d. Train accuracy: %.3f, test accuracy: %.3f",
		len(trainX), len(testX), model.TrainAccuracy, model.TestAccuracy)
	return model, nil
}

// standardize rescales each column to zero mean and unit variance in
// place, returning the per-feature means and standard deviations.
func standardize(x [][]float64, features []string) (means, stddevs []float64, err error) {
	means = make([]float64, len(features))
	stddevs = make([]float64, len(features))
	column := make([]float64, len(x))

	for j := range features {
		for i := range x {
			column[i] = x[i][j]
		}
		means[j], err = stats.Mean(column)
		if err != nil {
			return nil, nil, fmt.Errorf("standardizing %s: %w", features[j], err)
		}
		stddevs[j], err = stats.StandardDeviation(column)
		if err != nil {
			return nil, nil, fmt.Errorf("standardizing %s: %w", features[j], err)
		}
		if stddevs[j] == 0 {
			stddevs[j] = 1
		}
		for i := range x {
			x[i][j] = (x[i][j] - means[j]) / stddevs[j]
		}
	}
	return means, stddevs, nil
}

func subset(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	outX := make([][]float64, len(idx))
	outY := make([]float64, len(idx))
	for i, k := range idx {
		outX[i] = x[k]
		outY[i] = y[k]
	}
	return outX, outY
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func accuracy(weights []float64, bias float64, x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, row := range x {
		p := sigmoid(dot(weights, row) + bias)
		predicted := 0.0
		if p >= 0.5 {
			predicted = 1.0
		}
		if predicted == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}
