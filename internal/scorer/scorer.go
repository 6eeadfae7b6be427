// Package scorer is the learned re-ranking stage. It turns a fixed set of
// similarity and skill features into one score with gradient-boosted trees and
// owns the single process-wide trained model.
package scorer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Scorer holds the currently loaded model. Predictions share a read lock;
// loading and replacing the model take the write lock.
type Scorer struct {
	mu     sync.RWMutex
	model  *Ensemble
	path   string
	params Params
	logger *zap.Logger
}

// Option configures a Scorer
type Option func(*Scorer)

// WithParams overrides the boosting hyperparameters used by Train
func WithParams(p Params) Option {
	return func(s *Scorer) { s.params = p }
}

// New returns a scorer without a model. path is where the model artifact is
// loaded from and written to; an empty path keeps models in memory only.
func New(path string, logger *zap.Logger, opts ...Option) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scorer{
		path:   path,
		params: DefaultParams(),
		logger: logger.With(zap.String("model_path", path)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the model artifact location
func (s *Scorer) Path() string {
	return s.path
}

// HasModel reports whether a trained model is loaded
func (s *Scorer) HasModel() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

// Load reads the model artifact. A missing file leaves the scorer without a
// model and is not an error.
func (s *Scorer) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug("no trained model found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	var model Ensemble
	if err := json.Unmarshal(data, &model); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}
	if model.FormatVersion != modelFormatVersion {
		return fmt.Errorf("unsupported model format version %d", model.FormatVersion)
	}
	if !slices.Equal(model.FeatureOrder, FeatureOrder) {
		return fmt.Errorf("model feature order %v does not match %v", model.FeatureOrder, FeatureOrder)
	}
	if err := model.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	s.mu.Lock()
	s.model = &model
	s.mu.Unlock()

	s.logger.Info("loaded ranking model", zap.Int("trees", len(model.Trees)))
	return nil
}

// Predict scores one feature vector with the loaded model
func (s *Scorer) Predict(f FeatureVector) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.model == nil {
		return 0, ErrModelUnavailable
	}
	return s.model.Predict(f.Values()), nil
}

// PredictInput validates a wire-form feature record and scores it
func (s *Scorer) PredictInput(in FeatureInput) (float64, error) {
	f, err := in.Vector()
	if err != nil {
		return 0, err
	}
	return s.Predict(f)
}

// Train fits a new model on rows and replaces the current one. The artifact is
// written before the swap so a restart loads the model that was just trained.
// On error the previous model stays in place.
func (s *Scorer) Train(rows []TrainingRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: no training rows", ErrInvalidInput)
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		f, label, err := r.Example()
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		x[i] = f.Values()
		y[i] = label
	}

	model := fit(x, y, s.params)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(model); err != nil {
		return err
	}
	s.model = model

	s.logger.Info("trained ranking model",
		zap.Int("rows", len(rows)),
		zap.Int("trees", len(model.Trees)),
	)
	return nil
}

// persist writes model next to the target and renames it into place
func (s *Scorer) persist(model *Ensemble) error {
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace model: %w", err)
	}
	return nil
}
