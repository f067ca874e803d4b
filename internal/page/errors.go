package page

import "errors"

var (
	// ErrMissingImageSize indicates an operation needed the page dimensions
	// before ResolveImageSize was called. Recoverable: resolve and retry.
	ErrMissingImageSize = errors.New("page image size not resolved")

	// ErrImageUnreadable indicates the working image could not be opened or
	// its header could not be parsed. Fatal for the page; siblings continue.
	ErrImageUnreadable = errors.New("page image unreadable")
)
