package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMetadataRead  = errors.New("metadata read failure")
	ErrPreferences   = errors.New("preferences failure")
	ErrFilesystem    = errors.New("filesystem failure")
	ErrStorageSwap   = errors.New("storage swap failure")
	ErrPersistence   = errors.New("persistence failure")
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
)

var markers = []struct {
	err  error
	kind string
}{
	{ErrMetadataRead, "metadata_read"},
	{ErrPreferences, "preferences"},
	{ErrFilesystem, "filesystem"},
	{ErrStorageSwap, "storage_swap"},
	{ErrPersistence, "persistence"},
	{ErrConfiguration, "configuration"},
	{ErrValidation, "validation"},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above; a nil marker leaves the error
// unclassified.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for err, or "internal" when the
// error carries no known marker.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.kind
		}
	}
	return "internal"
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
