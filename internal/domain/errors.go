package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrQuotaExceeded   = errors.New("image quota exceeded")
	ErrStorageWrite    = errors.New("storage write failed")
	ErrRecordInsert    = errors.New("record insert failed")
	ErrClassification  = errors.New("classification failed")
	ErrSignedURL       = errors.New("signed url request failed")
	ErrDelete          = errors.New("delete failed")
	ErrNotFound        = errors.New("image not found")
)
