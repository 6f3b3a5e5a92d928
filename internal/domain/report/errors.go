package report

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
)

var (
	ErrReportNotFound = fmt.Errorf("%w: daily report not found", apperror.ErrNotFound)
	ErrReportExists   = fmt.Errorf("%w: a daily report was already submitted for this date", apperror.ErrConflict)
)
