package models

const TwitchWWWSchemeHost string = "https://www.twitch.tv"

type TwitchAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type FollowedChannel struct {
	BroadcasterID    string `json:"broadcaster_id"`
	BroadcasterLogin string `json:"broadcaster_login"`
	BroadcasterName  string `json:"broadcaster_name"`
	FollowedAt       string `json:"followed_at"`
}

type FollowedChannelsResponse struct {
	Channels []FollowedChannel `json:"channels"`
}

type ImportStreamersRequest struct {
	Channels []FollowedChannel `json:"channels"`
}

type ImportStreamersResponse struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

type Subscription struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Status    string                 `json:"status"`
	Condition map[string]interface{} `json:"condition"`
	CreatedAt string                 `json:"created_at"`
}

type SubscriptionsResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

type WebsocketConnectionsResponse struct {
	ActiveConnections int                      `json:"active_connections"`
	Connections       []map[string]interface{} `json:"connections"`
}
