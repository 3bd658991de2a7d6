package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/aube/minimal-log/models"
)

const (
	FieldTitle = "title"
	FieldDate  = "date"
	FieldTags  = "tags"

	maxTitleLength = 200
)

type MemoryValidator struct {
}

func NewMemoryValidator() Validator {
	return &MemoryValidator{}
}

func (v *MemoryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Memory:
		return v.validateMemory(ctx, value, fields...)
	case *models.Memory:
		return v.validateMemory(ctx, *value, fields...)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *MemoryValidator) validateMemory(_ context.Context, memory models.Memory, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldDate, FieldTags}
	}

	for _, field := range fields {
		switch field {
		case FieldTitle:
			if strings.TrimSpace(memory.Title) == "" {
				return ErrEmptyTitle
			}
			if len(memory.Title) > maxTitleLength {
				return ErrTitleTooLong
			}
		case FieldDate:
			if memory.Date.IsZero() {
				return ErrInvalidDate
			}
		case FieldTags:
			for _, tag := range memory.Tags {
				if strings.TrimSpace(tag) == "" || strings.Contains(tag, ",") {
					return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
				}
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}
