package habit

import "errors"

var (
	ErrNotFound         = errors.New("habit: not found")
	ErrArchived         = errors.New("habit: habit is archived")
	ErrNameRequired     = errors.New("habit: name is required")
	ErrFutureCompletion = errors.New("habit: cannot complete a habit in the future")
)
