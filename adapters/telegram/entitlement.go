package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/repositories"
)

// ChannelEntitlement gates private-chat use behind membership in a
// channel or group. An empty channel disables the gate.
type ChannelEntitlement struct {
	gateway *Gateway
	channel string
	logger  *zap.Logger
}

var _ repositories.EntitlementChecker = (*ChannelEntitlement)(nil)

// NewChannelEntitlement creates the membership checker. channel is the
// public handle the user must join, e.g. "@swarahub".
func NewChannelEntitlement(gateway *Gateway, channel string, logger *zap.Logger) *ChannelEntitlement {
	if channel == "" {
		logger.Info("Entitlement gate disabled, no required channel configured")
	}
	return &ChannelEntitlement{gateway: gateway, channel: channel, logger: logger}
}

// Channel returns the required handle, empty when the gate is off.
func (c *ChannelEntitlement) Channel() string {
	return c.channel
}

// IsEntitled reports whether the user may use the bot in private
// chats. A lookup failure denies access rather than silently waving
// the user through.
func (c *ChannelEntitlement) IsEntitled(ctx context.Context, userID int64) (bool, error) {
	if c.channel == "" {
		return true, nil
	}

	status, err := c.gateway.memberStatus(ctx, c.channel, userID)
	if err != nil {
		c.logger.Warn("Membership lookup failed",
			zap.Int64("userID", userID),
			zap.String("channel", c.channel),
			zap.Error(err))
		return false, err
	}

	switch status {
	case "creator", "administrator", "member", "restricted":
		return true, nil
	default:
		return false, nil
	}
}
