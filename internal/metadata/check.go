package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CheckReport classifies keys by their recorded reconstruction status.
type CheckReport struct {
	Success    []string
	NotSuccess []string
	NoMetadata []string
	Unknown    []string
}

// Succeeded reports whether path's sidecar records a successful
// reconstruction. Missing or unreadable sidecars count as not successful.
func Succeeded(keyDir string) bool {
	sidecar, err := Load(filepath.Join(keyDir, Filename))
	if err != nil {
		return false
	}
	return sidecar.ReconstructionStatus.Succeeded()
}

// CheckStatus inspects reconstruction_status for keys under baseDir. When
// subset is non-empty only those keys are checked; subset entries missing
// from the roster are reported under Unknown and skipped.
func CheckStatus(baseDir string, roster []string, subset []string) *CheckReport {
	rep := &CheckReport{}

	keys := roster
	if len(subset) > 0 {
		known := make(map[string]struct{}, len(roster))
		for _, key := range roster {
			known[key] = struct{}{}
		}
		keys = make([]string, 0, len(subset))
		for _, key := range subset {
			if _, ok := known[key]; ok {
				keys = append(keys, key)
			} else {
				rep.Unknown = append(rep.Unknown, key)
			}
		}
	}

	for _, key := range keys {
		sidecar, err := Load(filepath.Join(baseDir, key, Filename))
		switch {
		case errors.Is(err, ErrNotFound):
			rep.NoMetadata = append(rep.NoMetadata, key)
		case err != nil:
			rep.NotSuccess = append(rep.NotSuccess, key)
		case sidecar.ReconstructionStatus.Succeeded():
			rep.Success = append(rep.Success, key)
		default:
			rep.NotSuccess = append(rep.NotSuccess, key)
		}
	}
	return rep
}

// SuccessYAML renders the succeeded keys as a config snippet ready to paste
// back into config.yaml.
func (r *CheckReport) SuccessYAML() (string, error) {
	if len(r.Success) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]string{"keys": r.Success}); err != nil {
		return "", fmt.Errorf("encode success keys: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
