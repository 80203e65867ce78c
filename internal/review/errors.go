package review

import "errors"

var (
	ErrResponseIDRequired = errors.New("response id is required")
	ErrGradeOutOfRange    = errors.New("grade must be between 0 and 100")
)
