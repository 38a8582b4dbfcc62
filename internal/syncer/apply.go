package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/sync-config/internal/logger"
	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/agentx-labs/sync-config/internal/platform"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Outcome is what applying one action did.
type Outcome int

const (
	// Created means the target path did not exist before.
	Created Outcome = iota
	// Updated means an existing target path was replaced.
	Updated
	// Unchanged means the target already matched.
	Unchanged
	// Failed means the action could not be applied.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one action.
type Result struct {
	Action  plan.Action
	Outcome Outcome
	Err     error
}

// Apply executes every action of p. A failing action does not stop the
// others; failures are returned together as a *PartialError after all
// actions ran. A cancelled ctx stops at the next action boundary.
func Apply(ctx context.Context, p *plan.Plan) ([]Result, error) {
	results := make([]Result, 0, len(p.Actions))
	var errs *multierror.Error

	for _, a := range p.Actions {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		outcome, err := applyAction(a)
		log := logger.G(ctx).WithFields(logrus.Fields{
			"category": a.Category,
			"source":   a.Source,
			"target":   a.Target,
			"mode":     a.Mode,
		})
		if err != nil {
			err = fmt.Errorf("%s: %w", a.Rel, err)
			errs = multierror.Append(errs, err)
			results = append(results, Result{Action: a, Outcome: Failed, Err: err})
			log.WithError(err).Warn("entry failed")
			continue
		}
		results = append(results, Result{Action: a, Outcome: outcome})
		log.WithField("outcome", outcome).Debug("entry synced")
	}

	if errs != nil {
		return results, newPartialError(errs, len(p.Actions))
	}
	return results, nil
}

func applyAction(a plan.Action) (Outcome, error) {
	if err := os.MkdirAll(filepath.Dir(a.Target), 0755); err != nil {
		return Failed, fmt.Errorf("creating parent directory: %w", err)
	}

	if platform.SameEntry(a.Target, a.Source) {
		return Failed, fmt.Errorf("%s resolves to the source file %s through a symlinked directory", a.Target, a.Source)
	}

	_, err := os.Lstat(a.Target)
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Failed, err
	}

	switch a.Mode {
	case plan.ModeSymlink:
		if existed && platform.LinksTo(a.Target, a.Source) {
			return Unchanged, nil
		}
		if err := platform.RemovePath(a.Target); err != nil {
			return Failed, err
		}
		if err := platform.CreateSymlink(a.Source, a.Target); err != nil {
			return Failed, err
		}
	default:
		if existed {
			same, err := copyMatches(a.Source, a.Target)
			if err != nil {
				return Failed, err
			}
			if same {
				return Unchanged, nil
			}
		}
		if err := platform.RemovePath(a.Target); err != nil {
			return Failed, err
		}
		if err := platform.CopyFile(a.Source, a.Target); err != nil {
			return Failed, fmt.Errorf("copying %s: %w", a.Source, err)
		}
	}

	if existed {
		return Updated, nil
	}
	return Created, nil
}

// copyMatches reports whether dst is already a regular-file copy of src,
// bytes and permission bits alike.
func copyMatches(src, dst string) (bool, error) {
	same, err := platform.SameContent(src, dst)
	if err != nil || !same {
		return false, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	return platform.PermMatches(dst, info.Mode())
}
