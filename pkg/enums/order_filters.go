package enums

import "fmt"

// StatusFilter narrows the order history view by display status.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterCompleted StatusFilter = "completed"
	StatusFilterTransit   StatusFilter = "transit"
	StatusFilterCancelled StatusFilter = "cancelled"
)

var validStatusFilters = []StatusFilter{
	StatusFilterAll,
	StatusFilterCompleted,
	StatusFilterTransit,
	StatusFilterCancelled,
}

func (f StatusFilter) String() string {
	return string(f)
}

func (f StatusFilter) IsValid() bool {
	for _, candidate := range validStatusFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseStatusFilter converts raw input into a StatusFilter.
func ParseStatusFilter(value string) (StatusFilter, error) {
	for _, candidate := range validStatusFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status filter %q", value)
}

// TimeFilter narrows the order history view by order age.
type TimeFilter string

const (
	TimeFilterAll        TimeFilter = "all time"
	TimeFilterThisWeek   TimeFilter = "this week"
	TimeFilterThisMonth  TimeFilter = "this month"
	TimeFilterLast3Month TimeFilter = "last 3 months"
	TimeFilterLast6Month TimeFilter = "last 6 months"
)

var validTimeFilters = []TimeFilter{
	TimeFilterAll,
	TimeFilterThisWeek,
	TimeFilterThisMonth,
	TimeFilterLast3Month,
	TimeFilterLast6Month,
}

func (f TimeFilter) String() string {
	return string(f)
}

func (f TimeFilter) IsValid() bool {
	for _, candidate := range validTimeFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseTimeFilter converts raw input into a TimeFilter.
func ParseTimeFilter(value string) (TimeFilter, error) {
	for _, candidate := range validTimeFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid time filter %q", value)
}
