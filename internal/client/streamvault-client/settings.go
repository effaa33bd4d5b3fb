package streamvault_client

import (
	"context"
	"fmt"
	"net/http"

	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
)

func cleanupPolicyPath(streamerID int64) string {
	if streamerID == 0 {
		return "/api/settings/cleanup-policy"
	}
	return fmt.Sprintf("/api/streamers/%d/cleanup-policy", streamerID)
}

// GetCleanupPolicy loads the global policy when streamerID is 0.
func (svc *StreamVaultClient) GetCleanupPolicy(ctx context.Context, streamerID int64) (*models.CleanupPolicy, error) {

	var policy models.CleanupPolicy
	err := svc.do(ctx, http.MethodGet, cleanupPolicyPath(streamerID), nil, &policy)
	if err != nil {
		return nil, errors.Wrap(err, "GetCleanupPolicy")
	}

	return &policy, nil
}

func (svc *StreamVaultClient) SaveCleanupPolicy(ctx context.Context, streamerID int64, policy models.CleanupPolicy) error {

	err := svc.do(ctx, http.MethodPut, cleanupPolicyPath(streamerID), policy, nil)
	if err != nil {
		return errors.Wrap(err, "SaveCleanupPolicy")
	}

	return nil
}

func (svc *StreamVaultClient) RunCleanup(ctx context.Context, streamerID int64) (*models.CleanupResult, error) {

	var res models.CleanupResult
	err := svc.do(ctx, http.MethodPost, fmt.Sprintf("/api/streamers/%d/cleanup", streamerID), nil, &res)
	if err != nil {
		return nil, errors.Wrap(err, "RunCleanup")
	}

	return &res, nil
}

func (svc *StreamVaultClient) WebsocketConnections(ctx context.Context) (*models.WebsocketConnectionsResponse, error) {

	var res models.WebsocketConnectionsResponse
	err := svc.do(ctx, http.MethodGet, "/admin/websocket-connections", nil, &res)
	if err != nil {
		return nil, errors.Wrap(err, "WebsocketConnections")
	}

	return &res, nil
}
