package models

type CleanupPolicyType string

var (
	CleanupByCount CleanupPolicyType = "count"
	CleanupBySize  CleanupPolicyType = "size" // threshold in GB
	CleanupByAge   CleanupPolicyType = "age"  // threshold in days
)

type CleanupPolicy struct {
	Type               CleanupPolicyType `json:"type"`
	Threshold          float64           `json:"threshold"`
	PreserveFavorites  bool              `json:"preserve_favorites"`
	PreserveCategories []string          `json:"preserve_categories"`
	PreserveTimeframe  PreserveTimeframe `json:"preserve_timeframe"`
}

type PreserveTimeframe struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`
	Weekdays  []int  `json:"weekdays"` // 0 = sunday
	TimeOfDay string `json:"time_of_day"`
}

func DefaultCleanupPolicy() CleanupPolicy {
	return CleanupPolicy{
		Type:              CleanupByCount,
		Threshold:         10,
		PreserveFavorites: true,
	}
}

type CleanupResult struct {
	DeletedCount int      `json:"deleted_count"`
	DeletedPaths []string `json:"deleted_paths"`
}
