package dropbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// SpaceUsage reports the account's storage quota in bytes.
type SpaceUsage struct {
	Allocated int64 `json:"allocated"`
	Used      int64 `json:"used"`
}

// FetchDisplayName returns the account holder's display name. The value is
// fetched per call, nothing is cached.
func (a *DropboxAuth) FetchDisplayName(ctx context.Context, accessToken string) (string, error) {
	body, err := a.callUsersAPI(ctx, a.accountURL, accessToken)
	if err != nil {
		return "", err
	}

	name := gjson.GetBytes(body, "name.display_name")
	if !name.Exists() || name.Type != gjson.String {
		return "", fmt.Errorf("display name missing from account response")
	}
	log.Debugf("authenticated Dropbox account: %s", name.String())
	return name.String(), nil
}

// FetchSpaceUsage returns the account's allocated and used storage, in
// bytes, exactly as reported by the provider.
func (a *DropboxAuth) FetchSpaceUsage(ctx context.Context, accessToken string) (*SpaceUsage, error) {
	body, err := a.callUsersAPI(ctx, a.usageURL, accessToken)
	if err != nil {
		return nil, err
	}

	return &SpaceUsage{
		Allocated: gjson.GetBytes(body, "allocation.allocated").Int(),
		Used:      gjson.GetBytes(body, "used").Int(),
	}, nil
}

// callUsersAPI performs one Dropbox RPC-style request. The users endpoints
// take no arguments, so the body is the JSON null literal.
func (a *DropboxAuth) callUsersAPI(ctx context.Context, endpoint, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("null"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
