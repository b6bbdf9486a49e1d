package facematch

import "fmt"

// Which identifies one image of a compared pair
type Which int

const (
	ImageA Which = iota + 1
	ImageB
)

func (w Which) String() string {
	if w == ImageB {
		return "image 2"
	}
	return "image 1"
}

// VerificationErrorKind classifies verification failures
type VerificationErrorKind int

const (
	VerifyNoFaceDetected VerificationErrorKind = iota + 1
	VerifyExternalFailure
)

// VerificationError is returned by Matcher.Verify
type VerificationError struct {
	Kind    VerificationErrorKind
	Which   Which // set for VerifyNoFaceDetected
	Message string
	Err     error
}

func (e *VerificationError) Error() string {
	if e.Kind == VerifyNoFaceDetected {
		return fmt.Sprintf("no face detected in %s", e.Which)
	}
	return fmt.Sprintf("face verification failed: %s", e.Message)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// AttributeErrorKind classifies attribute analysis failures
type AttributeErrorKind int

const (
	AttrNoFaceDetected AttributeErrorKind = iota + 1
	AttrNoFaceInResultSet
	AttrExternalFailure
)

// AttributeError is returned by Matcher.AnalyzeAttributes
type AttributeError struct {
	Kind    AttributeErrorKind
	Message string
	Err     error
}

func (e *AttributeError) Error() string {
	switch e.Kind {
	case AttrNoFaceDetected:
		return "no face detected in image"
	case AttrNoFaceInResultSet:
		return "no face found in analysis result"
	default:
		return fmt.Sprintf("attribute analysis failed: %s", e.Message)
	}
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// ClientInput reports whether the failure is caused by the uploaded content
func (e *VerificationError) ClientInput() bool {
	return e.Kind == VerifyNoFaceDetected
}

// ClientInput reports whether the failure is caused by the uploaded content
func (e *AttributeError) ClientInput() bool {
	return e.Kind == AttrNoFaceDetected || e.Kind == AttrNoFaceInResultSet
}
