package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace returns the first stack trace recorded by
// cockroachdb/errors anywhere in the chain.
func extractStacktrace(err error) string {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		if details := errors.GetSafeDetails(e).SafeDetails; len(details) > 0 {
			return details[0]
		}
	}
	return ""
}
