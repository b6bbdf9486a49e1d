package envelope

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kozaktomas/facegate/internal/database"
	"github.com/kozaktomas/facegate/internal/facematch"
)

// Class is an externally visible error class
type Class int

const (
	ClientInputError Class = iota + 1
	Unauthorized
	NotFound
	UpstreamFailure
)

func (c Class) String() string {
	switch c {
	case ClientInputError:
		return "client_input_error"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	default:
		return "upstream_failure"
	}
}

// InputError is a request the caller must fix. Auth marks credential problems.
type InputError struct {
	Message string
	Auth    bool
}

func (e *InputError) Error() string {
	return e.Message
}

// NewInputError returns a ClientInputError with a formatted message.
func NewInputError(format string, args ...any) *InputError {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// NewAuthError returns a credential error reported as 401.
func NewAuthError(message string) *InputError {
	return &InputError{Message: message, Auth: true}
}

// Classification is the result of Classify.
type Classification struct {
	Class  Class
	Status int
	Detail string
}

const (
	detailInternal     = "internal server error"
	detailVerifierDown = "face verification failed"
	detailAnalyzerDown = "attribute analysis failed"
	detailNotFound     = "record not found"
)

// Classify maps err to its class, HTTP status and caller-facing detail.
func Classify(err error) Classification {
	var input *InputError
	if errors.As(err, &input) {
		if input.Auth {
			return Classification{Class: Unauthorized, Status: http.StatusUnauthorized, Detail: input.Message}
		}
		return Classification{Class: ClientInputError, Status: http.StatusBadRequest, Detail: input.Message}
	}

	var verr *facematch.VerificationError
	if errors.As(err, &verr) {
		if verr.ClientInput() {
			return Classification{Class: ClientInputError, Status: http.StatusBadRequest, Detail: verr.Error()}
		}
		return upstream(detailVerifierDown)
	}

	var aerr *facematch.AttributeError
	if errors.As(err, &aerr) {
		if aerr.ClientInput() {
			return Classification{Class: ClientInputError, Status: http.StatusBadRequest, Detail: aerr.Error()}
		}
		return upstream(detailAnalyzerDown)
	}

	if errors.Is(err, database.ErrNotFound) {
		detail := detailNotFound
		var nf *database.NotFoundError
		if errors.As(err, &nf) {
			detail = nf.Detail
		}
		return Classification{Class: NotFound, Status: http.StatusNotFound, Detail: detail}
	}

	return upstream(detailInternal)
}

func upstream(detail string) Classification {
	return Classification{Class: UpstreamFailure, Status: http.StatusInternalServerError, Detail: detail}
}
