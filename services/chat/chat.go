// Package chat is the message transport between two users discussing a
// service. Delivery runs over Redis pub/sub; history is persisted to Mongo.
// Ordering and persistence are entirely this package's responsibility.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	chatRepo "timebank/database/repository/chat"
	"timebank/models"
	"timebank/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport opens channels between peers.
type Transport struct {
	Client *redis.Client
	Repo   chatRepo.MessageRepository
}

// Channel is a live two-party conversation scoped to a (peer, service) pair.
type Channel struct {
	transport *Transport
	key       string
	selfID    string
	peerID    string
	serviceID string

	pubsub *redis.PubSub
	recv   chan models.ChatMessage
	done   chan struct{}
}

// ChannelKey derives the transport key for a conversation. The pair is
// unordered so both parties land on the same channel.
func ChannelKey(a, b, serviceID string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return fmt.Sprintf("chat:%s:%s", strings.Join(pair, ":"), serviceID)
}

// OpenChannel subscribes to the conversation between self and peer about the
// given service. The returned channel must be closed by the caller.
func (t *Transport) OpenChannel(ctx context.Context, selfID, peerID, serviceID string) (*Channel, error) {
	key := ChannelKey(selfID, peerID, serviceID)
	pubsub := t.Client.Subscribe(ctx, key)

	// Force the subscription to be established before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to open chat channel: %w", err)
	}

	ch := &Channel{
		transport: t,
		key:       key,
		selfID:    selfID,
		peerID:    peerID,
		serviceID: serviceID,
		pubsub:    pubsub,
		recv:      make(chan models.ChatMessage, 16),
		done:      make(chan struct{}),
	}
	go ch.pump()
	return ch, nil
}

// pump forwards published payloads to the receive channel until Close.
func (c *Channel) pump() {
	defer close(c.recv)
	src := c.pubsub.Channel()
	for {
		select {
		case <-c.done:
			return
		case raw, ok := <-src:
			if !ok {
				return
			}
			var msg models.ChatMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				utils.GetLogger().Warn("chat: dropping malformed message", zap.Error(err))
				continue
			}
			select {
			case c.recv <- msg:
			case <-c.done:
				return
			}
		}
	}
}

// Send persists a message and publishes it to the conversation between
// sender and peer, without requiring an open subscription.
func (t *Transport) Send(ctx context.Context, senderID, peerID, serviceID, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text is empty")
	}

	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		ChannelKey:  ChannelKey(senderID, peerID, serviceID),
		ServiceID:   serviceID,
		SenderID:    senderID,
		RecipientID: peerID,
		Text:        text,
		SentAt:      time.Now(),
	}

	if t.Repo != nil {
		if err := t.Repo.Save(msg); err != nil {
			return nil, fmt.Errorf("failed to persist message: %w", err)
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	if err := t.Client.Publish(ctx, msg.ChannelKey, payload).Err(); err != nil {
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}
	return msg, nil
}

// Send publishes a message from the channel's owner to its peer.
func (c *Channel) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	return c.transport.Send(ctx, c.selfID, c.peerID, c.serviceID, text)
}

// Receive returns the stream of messages on this channel, including the
// caller's own sends.
func (c *Channel) Receive() <-chan models.ChatMessage {
	return c.recv
}

// Close tears down the subscription and stops the receive stream.
func (c *Channel) Close() error {
	close(c.done)
	return c.pubsub.Close()
}

// History returns the persisted conversation between self and peer about a
// service, oldest first.
func (t *Transport) History(ctx context.Context, selfID, peerID, serviceID string, limit int64) ([]models.ChatMessage, error) {
	if t.Repo == nil {
		return nil, nil
	}
	return t.Repo.History(ChannelKey(selfID, peerID, serviceID), limit)
}
