package statistics

import "studyhall/internal/shared/errs"

var ErrInvalidMonth = errs.Validation("INVALID_MONTH", "month must be YYYY-MM")
