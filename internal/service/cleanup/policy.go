package cleanup

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"streamvault_agent/internal/models"
	formater "streamvault_agent/internal/utils/formater"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// PolicyRequest is a policy as sent by a caller: threshold may be a number or,
// for size policies, a human readable size such as "20 GB".
type PolicyRequest struct {
	models.CleanupPolicy
	Threshold interface{} `json:"threshold"`
}

func (pr PolicyRequest) ToPolicy() (models.CleanupPolicy, error) {
	policy := pr.CleanupPolicy

	threshold, err := ParseThreshold(policy.Type, pr.Threshold)
	if err != nil {
		return policy, err
	}
	policy.Threshold = threshold

	return policy, nil
}

func ParseThreshold(policyType models.CleanupPolicyType, raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if policyType == models.CleanupBySize {
			gb, err := formater.ParseGigabytes(v)
			if err != nil {
				return 0, errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("threshold %q is not a size", v))
			}
			return gb, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("threshold %q is not a number", v))
		}
		return f, nil
	case nil:
		return 0, errors.Wrap(models.ErrInvalidPolicy, "threshold is required")
	}

	return 0, errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("unsupported threshold %v", raw))
}

// Validate reports the first rule the policy breaks, wrapped around models.ErrInvalidPolicy.
func Validate(policy models.CleanupPolicy) error {

	switch policy.Type {
	case models.CleanupByCount, models.CleanupBySize, models.CleanupByAge:
	default:
		return errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("unknown type %q", policy.Type))
	}

	if math.IsNaN(policy.Threshold) || math.IsInf(policy.Threshold, 0) {
		return errors.Wrap(models.ErrInvalidPolicy, "threshold must be a finite number")
	}
	if policy.Threshold <= 0 {
		return errors.Wrap(models.ErrInvalidPolicy, "threshold must be greater than zero")
	}

	for _, d := range policy.PreserveTimeframe.Weekdays {
		if d < 0 || d > 6 {
			return errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("weekday %d is out of range", d))
		}
	}

	var start, end time.Time
	var err error
	if s := policy.PreserveTimeframe.StartDate; s != "" {
		start, err = time.Parse(dateLayout, s)
		if err != nil {
			return errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("start date %q must be YYYY-MM-DD", s))
		}
	}
	if e := policy.PreserveTimeframe.EndDate; e != "" {
		end, err = time.Parse(dateLayout, e)
		if err != nil {
			return errors.Wrap(models.ErrInvalidPolicy, fmt.Sprintf("end date %q must be YYYY-MM-DD", e))
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return errors.Wrap(models.ErrInvalidPolicy, "start date is after end date")
	}

	return nil
}
