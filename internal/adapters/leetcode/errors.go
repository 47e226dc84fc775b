package leetcode

import "errors"

var (
	// ErrUpstream is returned when the GraphQL endpoint fails or reports errors.
	ErrUpstream = errors.New("leetcode upstream error")

	// ErrUserNotFound is returned when the user does not exist or is private.
	ErrUserNotFound = errors.New("user not found or private")
)
