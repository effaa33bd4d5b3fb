package repository

import (
	"context"
	"database/sql"
	"time"

	"streamvault_agent/internal/models"

	"github.com/lib/pq"
)

type cleanupPolicyRow struct {
	StreamerID         int64          `db:"streamer_id"`
	PolicyType         string         `db:"policy_type"`
	Threshold          float64        `db:"threshold"`
	PreserveFavorites  bool           `db:"preserve_favorites"`
	PreserveCategories pq.StringArray `db:"preserve_categories"`
	StartDate          string         `db:"start_date"`
	EndDate            string         `db:"end_date"`
	Weekdays           pq.Int64Array  `db:"weekdays"`
	TimeOfDay          string         `db:"time_of_day"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (r cleanupPolicyRow) toModel() models.CleanupPolicy {
	weekdays := make([]int, 0, len(r.Weekdays))
	for _, d := range r.Weekdays {
		weekdays = append(weekdays, int(d))
	}

	return models.CleanupPolicy{
		Type:               models.CleanupPolicyType(r.PolicyType),
		Threshold:          r.Threshold,
		PreserveFavorites:  r.PreserveFavorites,
		PreserveCategories: []string(r.PreserveCategories),
		PreserveTimeframe: models.PreserveTimeframe{
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Weekdays:  weekdays,
			TimeOfDay: r.TimeOfDay,
		},
	}
}

// GetCleanupPolicy returns the cached policy, nil when none was saved.
// streamerID 0 is the global policy.
func (dbr *DBRepository) GetCleanupPolicy(ctx context.Context, streamerID int64) (*models.CleanupPolicy, error) {

	query := dbr.db.Rebind(`
		select
			cp.streamer_id,
			cp.policy_type,
			cp.threshold,
			cp.preserve_favorites,
			cp.preserve_categories,
			cp.start_date,
			cp.end_date,
			cp.weekdays,
			cp.time_of_day,
			cp.updated_at
		from cleanup_policies cp
		where cp.streamer_id = ?;
	`)

	var row cleanupPolicyRow
	err := dbr.db.GetContext(ctx, &row, query, streamerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	policy := row.toModel()

	return &policy, nil
}

func (dbr *DBRepository) SaveCleanupPolicy(ctx context.Context, streamerID int64, policy models.CleanupPolicy) (err error) {

	weekdays := make(pq.Int64Array, 0, len(policy.PreserveTimeframe.Weekdays))
	for _, d := range policy.PreserveTimeframe.Weekdays {
		weekdays = append(weekdays, int64(d))
	}

	categories := pq.StringArray(policy.PreserveCategories)
	if categories == nil {
		categories = pq.StringArray{}
	}

	query := dbr.db.Rebind(`
		insert into cleanup_policies (
			streamer_id, policy_type, threshold, preserve_favorites, preserve_categories,
			start_date, end_date, weekdays, time_of_day, updated_at
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict (streamer_id) do update set
			policy_type = excluded.policy_type,
			threshold = excluded.threshold,
			preserve_favorites = excluded.preserve_favorites,
			preserve_categories = excluded.preserve_categories,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			weekdays = excluded.weekdays,
			time_of_day = excluded.time_of_day,
			updated_at = excluded.updated_at;
	`)

	_, err = dbr.db.ExecContext(ctx, query,
		streamerID,
		string(policy.Type),
		policy.Threshold,
		policy.PreserveFavorites,
		categories,
		policy.PreserveTimeframe.StartDate,
		policy.PreserveTimeframe.EndDate,
		weekdays,
		policy.PreserveTimeframe.TimeOfDay,
		time.Now().UTC(),
	)

	return
}
