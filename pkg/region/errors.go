package region

import (
	"errors"
	"fmt"
)

var (
	// ErrRegionAlreadyActive is returned by Activate while another region
	// of the same Manager is active.
	ErrRegionAlreadyActive = errors.New("render region already active")

	// ErrRegionTorn wraps the WriteError for operations attempted after a
	// flush failed. The region must be deactivated and a new one activated.
	ErrRegionTorn = errors.New("render region torn by a failed write")

	// ErrDeactivated is returned by operations on a deactivated region.
	ErrDeactivated = errors.New("render region deactivated")
)

// WriteError reports that the output stream failed mid-flush. The region's
// contents on screen are unknown afterwards.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write render region: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
