package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call. The gateway never surfaces a raw
// transport or HTTP error; every failure is an *Error with one of these
// kinds.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindServer:
		return "server error"
	default:
		return "unknown error"
	}
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields holds field-level rejection messages for KindValidation.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the failure kind, or 0 if err is not a gateway error.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
