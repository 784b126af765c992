package coord

import "github.com/cockroachdb/errors"

// ErrInvalidArgument marks errors caused by arguments violating a documented
// precondition (negative tolerance, empty ring list, unclosed ring...).
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultTolerance is the tolerance used by closeness checks when none is given.
const DefaultTolerance = 1e-9

func checkTolerance(tol float64) error {
	if tol < 0 {
		return errors.Wrapf(ErrInvalidArgument, "tolerance %v must not be negative", tol)
	}
	return nil
}
