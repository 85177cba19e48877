package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/maldi-lab/amrcollect/internal/ranking"
	"github.com/maldi-lab/amrcollect/internal/results"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Collection completed
	ExitDataError = 1 // Bad input data: malformed file, missing field, unknown metric
	ExitError     = 2 // Configuration or runtime error
)

// ValidationFailureError indicates that check ran successfully but one or
// more result files failed validation.
type ValidationFailureError struct {
	Message string
}

func (e *ValidationFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if isDataError(err) {
			os.Exit(ExitDataError)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}

// isDataError classifies errors caused by the input data rather than by the
// environment. These get their own exit code so batch scripts can tell a
// corrupt result file from a broken invocation.
func isDataError(err error) bool {
	var missingField *results.MissingFieldError
	var parseErr *results.ParseError
	var unknownMetric *ranking.UnknownMetricError
	var validationErr *ValidationFailureError
	return errors.As(err, &missingField) ||
		errors.As(err, &parseErr) ||
		errors.As(err, &unknownMetric) ||
		errors.As(err, &validationErr) ||
		errors.Is(err, fs.ErrNotExist)
}
