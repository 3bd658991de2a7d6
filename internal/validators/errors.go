package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle   = errors.New("title is required")
	ErrTitleTooLong = errors.New("title is too long")
	ErrInvalidDate  = errors.New("invalid entry date")
	ErrInvalidTag   = errors.New("tags must be non-empty and must not contain commas")
)
