package pipeline

import (
	"strings"

	"github.com/YuminosukeSato/regplot/pkg/errors"
)

const (
	msgFileMissing  = "File must be provided"
	msgInputMissing = "File, features, and target must be provided"
)

// Request is one regression job: the raw upload and the two column
// specifications exactly as the caller received them.
type Request struct {
	// ID tags the run in logs. Optional.
	ID string
	// Upload holds the CSV bytes. HasUpload distinguishes an absent file
	// from an empty one.
	Upload    []byte
	HasUpload bool
	// Features is a comma-separated list of column names.
	Features string
	Target   string
}

// FitRequest is the validated column selection.
type FitRequest struct {
	Features []string
	Target   string
}

// Columns returns the features followed by the target.
func (f FitRequest) Columns() []string {
	cols := make([]string, 0, len(f.Features)+1)
	cols = append(cols, f.Features...)
	return append(cols, f.Target)
}

// checkInput rejects requests with a missing file or empty fields. A file
// that is present but empty passes and fails later as a ParseError.
func checkInput(req Request) error {
	if !req.HasUpload {
		return errors.NewInputMissingError("file", msgFileMissing)
	}
	switch {
	case req.Features == "":
		return errors.NewInputMissingError("features", msgInputMissing)
	case req.Target == "":
		return errors.NewInputMissingError("target", msgInputMissing)
	}
	return nil
}

// ParseFitRequest splits features on commas and trims each name. The target
// is used verbatim. Names must be non-empty and distinct, and the target may
// not also be a feature.
func ParseFitRequest(features, target string) (FitRequest, error) {
	parts := strings.Split(features, ",")
	seen := make(map[string]bool, len(parts))
	fr := FitRequest{Features: make([]string, 0, len(parts)), Target: target}
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FitRequest{}, errors.NewInvalidRequestError("empty feature name in %q", features)
		}
		if seen[name] {
			return FitRequest{}, errors.NewInvalidRequestError("duplicate feature column %q", name)
		}
		seen[name] = true
		fr.Features = append(fr.Features, name)
	}
	if seen[target] {
		return FitRequest{}, errors.NewInvalidRequestError("target column %q is also listed as a feature", target)
	}
	return fr, nil
}
