package twitter

import (
	"net/url"
	"strconv"
)

const (
	// VerifyCredentialsEndpoint returns the authenticated user
	VerifyCredentialsEndpoint = "/account/verify_credentials.json"

	// UsersShowEndpoint resolves a screen name to a user
	UsersShowEndpoint = "/users/show.json"

	// FollowersListEndpoint pages through the accounts following a user
	FollowersListEndpoint = "/followers/list.json"

	// FriendsListEndpoint pages through the accounts a user follows
	FriendsListEndpoint = "/friends/list.json"

	// MaxPageSize is the largest page followers/list and friends/list accept
	MaxPageSize = 200

	// firstCursor starts a cursored listing; a next_cursor of 0 ends it
	firstCursor int64 = -1
)

func verifyCredentialsParams() url.Values {
	params := url.Values{}
	params.Set("skip_status", "true")
	params.Set("include_entities", "false")
	return params
}

func usersShowParams(screenName string) url.Values {
	params := url.Values{}
	params.Set("screen_name", screenName)
	params.Set("include_entities", "false")
	return params
}

func listParams(screenName string, cursor int64, count int) url.Values {
	if count <= 0 || count > MaxPageSize {
		count = MaxPageSize
	}

	params := url.Values{}
	params.Set("screen_name", screenName)
	params.Set("cursor", strconv.FormatInt(cursor, 10))
	params.Set("count", strconv.Itoa(count))
	params.Set("skip_status", "true")
	params.Set("include_user_entities", "false")
	return params
}
