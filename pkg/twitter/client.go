package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/goccy/go-json"

	"followdiff/pkg/config"
	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/ratelimit"
	"followdiff/pkg/snapshot"
)

// Client talks to the Twitter REST v1.1 API with OAuth 1.0a user credentials
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a client from explicit credentials. Every request waits
// on limiter before it is signed and sent; a nil limiter disables throttling.
// cfg.Timeout bounds each HTTP exchange, not the time spent waiting.
func NewClient(cfg config.TwitterConfig, limiter ratelimit.Limiter, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecretKey == "" || cfg.AccessToken == "" || cfg.AccessTokenSecret == "" {
		return nil, errors.New(errors.ErrorTypeAuth, "twitter credentials are incomplete")
	}
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	// oauth1 signs on top of whatever transport the context client carries
	base := &http.Client{Transport: http.DefaultTransport}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)

	oauthConfig := oauth1.NewConfig(cfg.APIKey, cfg.APISecretKey)
	httpClient := oauthConfig.Client(ctx, oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret))
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   MaxPageSize,
		limiter:    limiter,
		logger:     log.WithField("component", "twitter"),
	}, nil
}

// VerifyIdentity returns the account the credentials belong to
func (c *Client) VerifyIdentity(ctx context.Context) (snapshot.Member, error) {
	var user User
	if err := c.getJSON(ctx, VerifyCredentialsEndpoint, verifyCredentialsParams().Encode(), &user); err != nil {
		return snapshot.Member{}, err
	}
	return user.Member(), nil
}

// ResolveUser looks up a screen name
func (c *Client) ResolveUser(ctx context.Context, handle string) (snapshot.Member, error) {
	var user User
	if err := c.getJSON(ctx, UsersShowEndpoint, usersShowParams(handle).Encode(), &user); err != nil {
		return snapshot.Member{}, err
	}
	return user.Member(), nil
}

// ListFollowers returns every account following handle, in API order
func (c *Client) ListFollowers(ctx context.Context, handle string) ([]snapshot.Member, error) {
	return c.listUsers(ctx, FollowersListEndpoint, handle)
}

// ListFollowing returns every account handle follows, in API order
func (c *Client) ListFollowing(ctx context.Context, handle string) ([]snapshot.Member, error) {
	return c.listUsers(ctx, FriendsListEndpoint, handle)
}

func (c *Client) listUsers(ctx context.Context, endpoint, handle string) ([]snapshot.Member, error) {
	var members []snapshot.Member
	seen := map[int64]bool{}

	for cursor := firstCursor; cursor != 0; {
		if seen[cursor] {
			c.logger.WarnWithFields("cursor repeated, aborting pagination", map[string]interface{}{
				"endpoint": endpoint,
				"cursor":   cursor,
			})
			return nil, errors.Newf(errors.ErrorTypeParsing, "cursor %d repeated while listing %s of @%s", cursor, endpoint, handle)
		}
		seen[cursor] = true

		var page UsersPage
		if err := c.getJSON(ctx, endpoint, listParams(handle, cursor, c.pageSize).Encode(), &page); err != nil {
			return nil, err
		}
		for _, u := range page.Users {
			members = append(members, u.Member())
		}

		c.logger.DebugWithFields("fetched page", map[string]interface{}{
			"endpoint": endpoint,
			"handle":   handle,
			"users":    len(page.Users),
			"total":    len(members),
		})
		cursor = page.NextCursor
	}

	return members, nil
}

// getJSON performs a signed GET and decodes the JSON response into target
func (c *Client) getJSON(ctx context.Context, endpoint, query string, target interface{}) error {
	url := c.baseURL + endpoint
	if query != "" {
		url += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeUnknown, err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrorTypeRateLimit, err, "rate limiter wait failed")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WarnWithFields("request failed", map[string]interface{}{
			"endpoint": endpoint,
		})
		return errors.Wrap(errors.ErrorTypeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	logger.LogRequest(c.logger, req.Method, endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{Type: errors.ErrorTypeNetwork, Message: "failed to read response body", Code: resp.StatusCode, Err: err}
	}

	if err := c.checkResponseStatus(resp, endpoint, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"endpoint":     endpoint,
			"body_preview": preview,
		})
		return &errors.Error{Type: errors.ErrorTypeParsing, Message: "failed to parse response", Code: resp.StatusCode, Err: err}
	}

	return nil
}

// checkResponseStatus maps a non-2xx response to a typed error carrying the
// message from Twitter's error payload when there is one
func (c *Client) checkResponseStatus(resp *http.Response, endpoint string, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var payload ErrorResponse
	_ = json.Unmarshal(body, &payload)
	message := payload.Message()

	errType := errors.TypeForStatusCode(resp.StatusCode)
	if message == "" {
		switch errType {
		case errors.ErrorTypeAuth:
			message = "authentication failed"
		case errors.ErrorTypeNotFound:
			message = "resource not found"
		case errors.ErrorTypeRateLimit:
			message = "rate limit exceeded"
		case errors.ErrorTypeServerError:
			message = "server error"
		default:
			message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
	}

	if errType == errors.ErrorTypeRateLimit {
		reset := parseReset(resp.Header.Get("x-rate-limit-reset"))
		logger.LogRateLimit(c.logger, endpoint, reset)
		if !reset.IsZero() {
			message = fmt.Sprintf("%s (resets at %s)", message, reset.Local().Format("15:04:05"))
		}
	}

	return &errors.Error{Type: errType, Message: message, Code: resp.StatusCode}
}

func parseReset(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
