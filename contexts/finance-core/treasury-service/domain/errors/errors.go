package errors

import "errors"

var (
	ErrPlatformNotInitialized        = errors.New("platform is not initialized")
	ErrPlatformAlreadyInitialized    = errors.New("platform is already initialized")
	ErrFeeTooHigh                    = errors.New("fee percentage cannot reach 10%")
	ErrInvalidAuthority              = errors.New("invalid platform authority")
	ErrUnauthorized                  = errors.New("caller is not the platform authority")
	ErrInsufficientWithdrawableFunds = errors.New("no withdrawable fees above the retention reserve")
	ErrCounterOverflow               = errors.New("platform counter overflow")
)
