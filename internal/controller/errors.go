package controller

import "errors"

var (
	// ErrNotMounted is returned by operations that need the manifold before
	// the viewport has been measured.
	ErrNotMounted = errors.New("controller: not mounted")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("controller: closed")

	// ErrUnknownVariant is returned by New for a variant name it does not know.
	ErrUnknownVariant = errors.New("controller: unknown variant")
)
