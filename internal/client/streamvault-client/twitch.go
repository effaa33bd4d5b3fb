package streamvault_client

import (
	"context"
	"net/http"
	"net/url"

	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func (svc *StreamVaultClient) TwitchAuthURL(ctx context.Context) (string, error) {

	var resp models.TwitchAuthURLResponse
	err := svc.do(ctx, http.MethodGet, "/api/twitch/auth-url", nil, &resp)
	if err != nil {
		return "", errors.Wrap(err, "TwitchAuthURL")
	}

	return resp.AuthURL, nil
}

func (svc *StreamVaultClient) FollowedChannels(ctx context.Context, accessToken string) (data []models.FollowedChannel, err error) {

	query := url.Values{}
	query.Add("access_token", accessToken)

	var raw jsoniter.RawMessage
	err = svc.do(ctx, http.MethodGet, "/api/twitch/followed-channels?"+query.Encode(), nil, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "FollowedChannels")
	}

	err = decodeList(raw, "channels", &data)
	if err != nil {
		return nil, errors.Wrap(err, "decodeList")
	}

	return
}

func (svc *StreamVaultClient) ImportStreamers(ctx context.Context, channels []models.FollowedChannel) (*models.ImportStreamersResponse, error) {

	var resp models.ImportStreamersResponse
	err := svc.do(ctx, http.MethodPost, "/api/twitch/import-streamers",
		models.ImportStreamersRequest{Channels: channels}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "ImportStreamers")
	}

	return &resp, nil
}
