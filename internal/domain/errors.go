package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrBotRunning          = errors.New("bot already running")
	ErrBotNotRunning       = errors.New("bot not running")
	ErrMissingSigningKey   = errors.New("signing key missing or placeholder")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrSigningFailed       = errors.New("signing failed")
	ErrContextDone         = errors.New("context cancelled")
)
