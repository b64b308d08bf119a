package errors

import "errors"

var (
	ErrInvalidUser      = errors.New("invalid user id")
	ErrReputationExists = errors.New("reputation record already exists")
	ErrScoreOverflow    = errors.New("reputation score overflow")
)
