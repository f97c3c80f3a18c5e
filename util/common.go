package util

import (
	"fmt"
	"strings"
)

// RecoverPanic to be deferred directly, the handler receives the panic value as error
func RecoverPanic(handler func(e error)) {
	if r := recover(); r != nil {
		if handler != nil {
			if err, ok := r.(error); ok {
				handler(err)
				return
			}
			handler(fmt.Errorf("%v", r))
		}
	}
}

func HasError(err error) bool {
	return err != nil
}

// IsEmptyString to check input s is empty or only contains white spaces
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MaskString keep the first n chars and hide the rest, for tokens in logs
func MaskString(s string, n int) string {
	if len(s) <= n {
		return strings.Repeat("*", len(s))
	}
	return s[:n] + strings.Repeat("*", len(s)-n)
}
