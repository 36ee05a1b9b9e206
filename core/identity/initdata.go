package identity

import (
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"

	"github.com/vvladislovv/GreMiuv/core"
)

// HostUser is the user payload embedded in the host-session blob.
type HostUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// DisplayName picks the best human-readable name from the host metadata.
func (u HostUser) DisplayName() string {
	name := core.CleanString(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Username
}

// ParseInitData extracts the host user from the opaque session blob
// (a percent-encoded query string carrying a JSON `user` field).
func ParseInitData(raw string) (*HostUser, error) {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parsing init data")
	}
	payload := vals.Get("user")
	if payload == "" {
		return nil, errors.New("init data has no user field")
	}
	var usr HostUser
	if err := json.Unmarshal([]byte(payload), &usr); err != nil {
		return nil, errors.Wrap(err, "decoding init data user")
	}
	if usr.ID == 0 {
		return nil, errors.New("init data user has no id")
	}
	return &usr, nil
}
