package syncer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agentx-labs/sync-config/internal/plan"
	"github.com/agentx-labs/sync-config/internal/platform"
)

// State classifies a target path against its planned action.
type State string

const (
	StateLinked    State = "linked"
	StateCopied    State = "copied"
	StateStale     State = "stale"
	StateWrongMode State = "wrong-mode"
	StateMissing   State = "missing"
)

// InSync reports whether the path already matches the plan.
func (s State) InSync() bool {
	return s == StateLinked || s == StateCopied
}

// EntryStatus is the state of one planned target path.
type EntryStatus struct {
	Action plan.Action
	State  State
	Detail string
}

// Status classifies every action of p against the filesystem.
func Status(p *plan.Plan) ([]EntryStatus, error) {
	out := make([]EntryStatus, 0, len(p.Actions))
	for _, a := range p.Actions {
		st, err := classify(a)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", a.Target, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Status computes the plan and reports how far the target has drifted from
// it. Nothing is written.
func (s *Syncer) Status(ctx context.Context) (*plan.Plan, []EntryStatus, error) {
	p, _, err := s.Prepare(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := Status(p)
	if err != nil {
		return nil, nil, err
	}
	return p, entries, nil
}

func classify(a plan.Action) (EntryStatus, error) {
	st := EntryStatus{Action: a}

	if platform.SameEntry(a.Target, a.Source) {
		st.State = StateStale
		st.Detail = "resolves to the source through a symlinked directory"
		return st, nil
	}

	info, err := os.Lstat(a.Target)
	if errors.Is(err, fs.ErrNotExist) {
		st.State = StateMissing
		return st, nil
	}
	if err != nil {
		return st, err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		if a.Mode == plan.ModeCopy {
			st.State = StateWrongMode
			st.Detail = "symlink where a copy is expected"
			return st, nil
		}
		if platform.LinksTo(a.Target, a.Source) {
			st.State = StateLinked
			return st, nil
		}
		dest, _ := platform.ReadSymlinkTarget(a.Target)
		st.State = StateStale
		st.Detail = "points to " + dest
	case info.Mode().IsRegular():
		if a.Mode == plan.ModeSymlink {
			st.State = StateWrongMode
			st.Detail = "regular file where a symlink is expected"
			return st, nil
		}
		same, err := copyMatches(a.Source, a.Target)
		if err != nil {
			return st, err
		}
		if same {
			st.State = StateCopied
			return st, nil
		}
		st.State = StateStale
		st.Detail = "differs from source"
	case info.IsDir():
		st.State = StateStale
		st.Detail = "occupied by a directory"
	default:
		st.State = StateStale
		st.Detail = "occupied by a special file"
	}
	return st, nil
}
