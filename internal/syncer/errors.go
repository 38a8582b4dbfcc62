package syncer

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// PartialError reports entries that failed while the rest of the sync
// went ahead.
type PartialError struct {
	Failed int
	Total  int
	errs   *multierror.Error
}

func newPartialError(errs *multierror.Error, total int) *PartialError {
	errs.ErrorFormat = func(es []error) string {
		lines := make([]string, 0, len(es))
		for _, e := range es {
			lines = append(lines, "  "+e.Error())
		}
		return strings.Join(lines, "\n")
	}
	return &PartialError{Failed: errs.Len(), Total: total, errs: errs}
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of %d entries failed to sync:\n%s", e.Failed, e.Total, e.errs.Error())
}

// Unwrap exposes the individual entry errors to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	return e.errs.WrappedErrors()
}
