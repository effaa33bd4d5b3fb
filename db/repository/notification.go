package repository

import (
	"context"

	"streamvault_agent/internal/models"

	"github.com/jmoiron/sqlx"
)

func (dbr *DBRepository) AddNotification(ctx context.Context, tx *sqlx.Tx, n models.Notification) (err error) {

	query := dbr.db.Rebind(`
		insert into notification_history
			(id, event_type, streamer_id, streamer_name, streamer_login, message, is_read, created_at)
			values (?, ?, ?, ?, ?, ?, ?, ?);
	`)

	res, err := tx.ExecContext(ctx, query,
		n.ID, n.Type, n.StreamerID, n.StreamerName, n.StreamerLogin, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return err
	}

	_, err = res.RowsAffected()
	if err != nil {
		return err
	}

	return
}

// TrimNotifications keeps only the newest keep rows.
func (dbr *DBRepository) TrimNotifications(ctx context.Context, tx *sqlx.Tx, keep int) (removed int64, err error) {

	query := dbr.db.Rebind(`
		delete from notification_history
		where id not in (
			select nh.id
			from notification_history nh
			order by nh.created_at desc
			limit ?
		);
	`)

	res, err := tx.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (dbr *DBRepository) GetNotifications(ctx context.Context, limit int) (data []models.Notification, err error) {

	query := dbr.db.Rebind(`
		select
			nh.id,
			nh.event_type,
			nh.streamer_id,
			nh.streamer_name,
			nh.streamer_login,
			nh.message,
			nh.is_read,
			nh.created_at
		from notification_history nh
		order by nh.created_at desc
		limit ?;
	`)

	err = dbr.db.SelectContext(ctx, &data, query, limit)
	if err != nil {
		return []models.Notification{}, err
	}

	return
}

func (dbr *DBRepository) MarkNotificationRead(ctx context.Context, id string) (err error) {

	query := dbr.db.Rebind(`
		update notification_history
			set is_read = ?
		where id = ?;
	`)

	res, err := dbr.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n < 1 {
		return models.ErrNotFound
	}

	return
}

func (dbr *DBRepository) ClearNotifications(ctx context.Context) (err error) {

	_, err = dbr.db.ExecContext(ctx, `delete from notification_history;`)

	return
}
