package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrResultNotFound  = errors.New("result not found")
)
