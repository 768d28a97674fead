package service

import "inkwell/internal/httputil"

// optionalString builds a present OptionalString, for internal calls that
// reuse the tri-state update paths.
func optionalString(v *string) httputil.OptionalString {
	return httputil.OptionalString{Present: true, Value: v}
}
