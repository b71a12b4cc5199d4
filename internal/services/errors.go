package services

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDealNotFound  = errors.New("deal not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status")
)
