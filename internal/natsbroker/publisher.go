package natsbroker

import (
	"encoding/json"

	"github.com/fitclash/fitclash/internal/apperrors"
)

// Publisher writes to core NATS subjects. Delivery is at-most-once with no
// backlog, which is exactly the contract the leaderboard fan-out wants.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishJSON(subject string, msg interface{}) *apperrors.AppError {
	data, err := json.Marshal(msg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal message")
	}

	return p.Publish(subject, data)
}

func (p *Publisher) Publish(subject string, data []byte) *apperrors.AppError {
	if err := p.client.conn.Publish(subject, data); err != nil {
		return apperrors.Wrap(err, apperrors.CodeEventPublishError, "failed to publish message")
	}
	return nil
}
