package streamvault_client

import (
	"context"
	"fmt"
	"net/http"

	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func (svc *StreamVaultClient) GetStreams(ctx context.Context, streamerID int64) (data []models.Stream, err error) {

	var raw jsoniter.RawMessage
	err = svc.do(ctx, http.MethodGet, fmt.Sprintf("/api/streamers/%d/streams", streamerID), nil, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "GetStreams")
	}

	err = decodeList(raw, "streams", &data)
	if err != nil {
		return nil, errors.Wrap(err, "decodeList")
	}

	return
}

func (svc *StreamVaultClient) DeleteStream(ctx context.Context, streamerID, streamID int64) error {

	err := svc.do(ctx, http.MethodDelete, fmt.Sprintf("/api/streamers/%d/streams/%d", streamerID, streamID), nil, nil)
	if err != nil {
		return errors.Wrap(err, "DeleteStream")
	}

	return nil
}

func (svc *StreamVaultClient) DeleteAllStreams(ctx context.Context, streamerID int64) (deleted int, err error) {

	var resp models.DeleteStreamsResponse
	err = svc.do(ctx, http.MethodDelete, fmt.Sprintf("/api/streamers/%d/streams", streamerID), nil, &resp)
	if err != nil {
		return 0, errors.Wrap(err, "DeleteAllStreams")
	}

	return resp.DeletedCount, nil
}

func (svc *StreamVaultClient) GetChapters(ctx context.Context, streamID int64) (data []models.Chapter, err error) {

	var raw jsoniter.RawMessage
	err = svc.do(ctx, http.MethodGet, fmt.Sprintf("/api/streams/%d/chapters", streamID), nil, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "GetChapters")
	}

	err = decodeList(raw, "chapters", &data)
	if err != nil {
		return nil, errors.Wrap(err, "decodeList")
	}

	return
}
