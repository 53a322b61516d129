package twitter

import "followdiff/pkg/snapshot"

// User is the subset of a v1.1 user object that snapshots need
type User struct {
	ID         int64  `json:"id"`
	IDStr      string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

// Member converts the user to a snapshot member
func (u User) Member() snapshot.Member {
	return snapshot.Member{Handle: u.ScreenName, ID: u.ID}
}

// UsersPage is one page of a cursored user listing
type UsersPage struct {
	Users          []User `json:"users"`
	NextCursor     int64  `json:"next_cursor"`
	PreviousCursor int64  `json:"previous_cursor"`
}

// APIError is one entry of a v1.1 error payload
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body Twitter sends with non-2xx statuses
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
	Error  string     `json:"error"`
}

// Message returns the most specific message in the payload, if any
func (r ErrorResponse) Message() string {
	if len(r.Errors) > 0 && r.Errors[0].Message != "" {
		return r.Errors[0].Message
	}
	return r.Error
}
