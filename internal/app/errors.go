package app

import (
	"errors"

	"github.com/khrees2412/predicta/internal/database"
)

// Sentinel errors for common application errors
var (
	ErrNotFound        = database.ErrNotFound
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDuplicateURL    = errors.New("a job with this URL already exists")
	ErrNoCandidates    = errors.New("job has no candidates")
)
