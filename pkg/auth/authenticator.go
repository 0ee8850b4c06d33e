package auth

import "log/slog"

type authenticator struct {
	authorizedUserIDs []string
}

// NewAuthenticator builds an allowlist authenticator for the local API.
// An empty allowlist authorizes everyone, which is the normal mode for a
// single-user companion device.
func NewAuthenticator(authorizedUserIDs []string) *authenticator {
	if len(authorizedUserIDs) > 0 {
		slog.Info("api authorized user IDs", "user_ids", authorizedUserIDs)
	}

	return &authenticator{authorizedUserIDs: authorizedUserIDs}
}

func (a *authenticator) IsAuthorized(userID string) bool {
	if len(a.authorizedUserIDs) == 0 {
		return true
	}
	for _, id := range a.authorizedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}
