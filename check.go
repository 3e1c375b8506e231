package g2mfeed

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-version"
)

// IsNewBuildAvailable resolves the feed and reports whether its newest build
// is greater than currentBuild. The resolved release is returned either way
// so callers do not have to resolve twice.
func (r *Resolver) IsNewBuildAvailable(ctx context.Context, currentBuild string) (bool, *Result, error) {
	curr, err := version.NewVersion(currentBuild)
	if err != nil {
		return false, nil, fmt.Errorf("failed to parse current build %q: %w", currentBuild, err)
	}

	result, err := r.Resolve(ctx)
	if err != nil {
		return false, nil, err
	}

	latest, err := version.NewVersion(result.Build)
	if err != nil {
		return false, nil, fmt.Errorf("failed to parse latest build %q: %w", result.Build, err)
	}

	return latest.GreaterThan(curr), result, nil
}
