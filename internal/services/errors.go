package services

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrContractNotFound     = errors.New("order has no contract")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBulkPartialFailure   = errors.New("some operations in the batch failed")
	// ErrRefreshFailed means the command succeeded but the follow-up fetch
	// did not, so the returned data may be stale.
	ErrRefreshFailed = errors.New("saved, but reloading the data failed")
)
