package streamvault_client

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = time.Second * 10

type StreamVaultClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewStreamVaultClient(baseURL, token string) *StreamVaultClient {
	return &StreamVaultClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithHTTPClient replaces the underlying http client, mostly for tests.
func (svc *StreamVaultClient) WithHTTPClient(c *http.Client) *StreamVaultClient {
	svc.client = c
	return svc
}

func (svc *StreamVaultClient) BaseURL() string {
	return svc.baseURL
}

// do sends the request and decodes a 2xx body into out (when out is not nil).
// Non-2xx answers come back as *models.APIError.
func (svc *StreamVaultClient) do(ctx context.Context, method, path string, body, out interface{}) error {

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := jsoniter.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "Marshal")
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, svc.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if svc.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", svc.token))
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &models.APIError{Status: resp.StatusCode}

		var errBody models.ErrorBody
		if err := jsoniter.Unmarshal(readedResp, &errBody); err == nil {
			apiErr.Message = errBody.Text()
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		logrus.Debugf("%s %s failed: %v", method, path, apiErr)

		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(readedResp)) == 0 {
		return nil
	}

	return jsoniter.Unmarshal(unwrapEnvelope(readedResp), out)
}

// unwrapEnvelope returns the payload of a {"data": ..., "error": ...} body,
// or the body itself when it is not wrapped.
func unwrapEnvelope(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}

	var fields map[string]jsoniter.RawMessage
	if err := jsoniter.Unmarshal(trimmed, &fields); err != nil {
		return body
	}

	data, ok := fields["data"]
	if !ok {
		return body
	}

	for k := range fields {
		if k != "data" && k != "error" {
			return body
		}
	}

	return data
}

// decodeList accepts both a bare json array and an object holding it under key.
func decodeList(raw jsoniter.RawMessage, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		return jsoniter.Unmarshal(trimmed, out)
	}

	var fields map[string]jsoniter.RawMessage
	if err := jsoniter.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	list, ok := fields[key]
	if !ok {
		return errors.Errorf("response has no %q field", key)
	}

	return jsoniter.Unmarshal(list, out)
}
