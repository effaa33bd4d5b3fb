package streamvault_client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func (svc *StreamVaultClient) GetStreamers(ctx context.Context) (data []models.Streamer, err error) {

	var raw jsoniter.RawMessage
	err = svc.do(ctx, http.MethodGet, "/api/streamers", nil, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "GetStreamers")
	}

	err = decodeList(raw, "streamers", &data)
	if err != nil {
		return nil, errors.Wrap(err, "decodeList")
	}

	return
}

func (svc *StreamVaultClient) GetStreamer(ctx context.Context, id int64) (data *models.Streamer, err error) {

	var streamer models.Streamer
	err = svc.do(ctx, http.MethodGet, fmt.Sprintf("/api/streamers/%d", id), nil, &streamer)
	if err != nil {
		return nil, errors.Wrap(err, "GetStreamer")
	}

	data = &streamer

	return
}

func (svc *StreamVaultClient) ValidateUsername(ctx context.Context, username string) (data *models.ValidateUsernameResponse, err error) {

	var resp models.ValidateUsernameResponse
	err = svc.do(ctx, http.MethodGet, "/api/streamers/validate/"+url.PathEscape(username), nil, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "ValidateUsername")
	}

	data = &resp

	return
}

func (svc *StreamVaultClient) AddStreamer(ctx context.Context, username string) (data *models.Streamer, err error) {

	var streamer models.Streamer
	err = svc.do(ctx, http.MethodPost, "/api/streamers/"+url.PathEscape(username),
		models.AddStreamerRequest{Username: username}, &streamer)
	if err != nil {
		return nil, errors.Wrap(err, "AddStreamer")
	}

	data = &streamer

	return
}

func (svc *StreamVaultClient) DeleteStreamer(ctx context.Context, id int64) error {

	err := svc.do(ctx, http.MethodDelete, fmt.Sprintf("/api/streamers/%d", id), nil, nil)
	if err != nil {
		return errors.Wrap(err, "DeleteStreamer")
	}

	return nil
}

func (svc *StreamVaultClient) GetSubscriptions(ctx context.Context) (data []models.Subscription, err error) {

	var raw jsoniter.RawMessage
	err = svc.do(ctx, http.MethodGet, "/api/streamers/subscriptions", nil, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "GetSubscriptions")
	}

	err = decodeList(raw, "subscriptions", &data)
	if err != nil {
		return nil, errors.Wrap(err, "decodeList")
	}

	return
}

func (svc *StreamVaultClient) DeleteAllSubscriptions(ctx context.Context) error {

	err := svc.do(ctx, http.MethodDelete, "/api/streamers/subscriptions", nil, nil)
	if err != nil {
		return errors.Wrap(err, "DeleteAllSubscriptions")
	}

	return nil
}

func (svc *StreamVaultClient) ResubscribeAll(ctx context.Context) error {

	err := svc.do(ctx, http.MethodPost, "/api/streamers/resubscribe-all", nil, nil)
	if err != nil {
		return errors.Wrap(err, "ResubscribeAll")
	}

	return nil
}
