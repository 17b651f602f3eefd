package services

import "errors"

var (
	ErrVestingDataUnavailable = errors.New("failed to fetch vesting data")
	ErrWrongNetwork           = errors.New("connected to the wrong network")
	ErrNothingToRelease       = errors.New("no releasable tokens")
	ErrReleaseUnavailable     = errors.New("release signing is not configured")
	ErrReleaseRejected        = errors.New("release cancelled by signer")
	ErrReleaseFailed          = errors.New("release transaction failed")
)
