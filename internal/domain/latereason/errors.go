package latereason

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
)

var (
	ErrReasonNotFound = fmt.Errorf("%w: late login reason not found", apperror.ErrNotFound)
)
