package streamvault_client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

func (svc *StreamVaultClient) ForceRecording(ctx context.Context, streamerID int64) error {

	err := svc.do(ctx, http.MethodPost, fmt.Sprintf("/api/recording/force/%d", streamerID), nil, nil)
	if err != nil {
		return errors.Wrap(err, "ForceRecording")
	}

	return nil
}

func (svc *StreamVaultClient) ForceOffline(ctx context.Context, streamerID int64) error {

	err := svc.do(ctx, http.MethodPost, fmt.Sprintf("/api/recording/force-offline/%d", streamerID), nil, nil)
	if err != nil {
		return errors.Wrap(err, "ForceOffline")
	}

	return nil
}
