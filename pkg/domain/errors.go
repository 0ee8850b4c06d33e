package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoUserSelected      = errors.New("no active user")
	ErrNoCharacterSelected = errors.New("no character selected")
	ErrMissingCharacterID  = errors.New("selected character has no resolvable id")
	ErrEmptyResponse       = errors.New("empty response from backend")
	ErrNotFound            = errors.New("not found")
)

// GatewayError is a failed call to the remote backend: either a transport
// failure or a non-2xx status.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Status)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Message)
}

const (
	// BusyReplyText replaces a reply whose text came back blank.
	BusyReplyText = "抱歉，我现在有点累了，请稍后再试。"

	// NetworkErrorText is the generic reason shown when a send failure
	// carries no usable message.
	NetworkErrorText = "网络连接出错了，请稍后再试。"
)
