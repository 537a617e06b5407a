package services

import "errors"

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderNotPending          = errors.New("order is not pending")
	ErrBusinessNotFound         = errors.New("business not found")
	ErrCustomerNotFound         = errors.New("customer not found")
	ErrCustomerResolutionFailed = errors.New("customer resolution failed")
	ErrMissingSender            = errors.New("inbound message has no sender address")
)

// ErrInvalidWebhook dipakai untuk payload webhook yang ditolak (signature salah atau tidak bisa di-decode)
var ErrInvalidWebhook = errors.New("invalid webhook")

// ErrAccountNotReady berarti merchant account belum selesai onboarding
var ErrAccountNotReady = errors.New("payment account cannot accept charges yet")
