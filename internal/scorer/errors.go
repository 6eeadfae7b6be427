package scorer

import "errors"

var (
	// ErrModelUnavailable is returned by Predict before any model is trained or loaded
	ErrModelUnavailable = errors.New("ranking model not available, train it first")
	// ErrInvalidInput marks missing or malformed features and training rows
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorruptModel is returned by Load for an artifact whose trees are malformed
	ErrCorruptModel = errors.New("corrupt model artifact")
)
