package proxy

import (
	"errors"

	"frontmentor/askgate/pkg/classifier"
	"frontmentor/askgate/pkg/providers"
)

// HandleError converts any error reaching the HTTP layer into a classified
// error.
//
//   - *classifier.ClassifiedError is returned as is
//   - *RequestError becomes InputInvalid (400)
//   - *providers.Failure is run through the classifier
//   - anything else is Unknown (500) with a generic message
//
// Example usage:
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err), nil)
//	    return
//	}
func HandleError(err error) *classifier.ClassifiedError {
	var classified *classifier.ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Classified()
	}

	var failure *providers.Failure
	if errors.As(err, &failure) {
		return classifier.Classify(failure)
	}

	return InternalError()
}

// InternalError is the classification used for unexpected server faults.
// It never exposes internal details.
func InternalError() *classifier.ClassifiedError {
	return &classifier.ClassifiedError{
		Category:   classifier.Unknown,
		Message:    "An internal error occurred. Please try again later.",
		StatusCode: 500,
	}
}
