package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/natsbroker"
	"github.com/fitclash/fitclash/internal/service"
)

// EventSubscriber feeds fitness-sync events from the durable stream into the
// activity service. Sync metrics accumulate, so redelivery matters: handler
// errors Nak and the stream retries.
type EventSubscriber struct {
	natsClient      *natsbroker.Client
	subscriber      *natsbroker.Subscriber
	activityService service.ActivityService
	logger          *logger.Logger
}

func NewEventSubscriber(
	natsClient *natsbroker.Client,
	activityService service.ActivityService,
	log *logger.Logger,
) *EventSubscriber {
	return &EventSubscriber{
		natsClient:      natsClient,
		subscriber:      natsbroker.NewSubscriber(natsClient, log),
		activityService: activityService,
		logger:          log.With("component", "event-subscriber"),
	}
}

func (s *EventSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting event subscriptions")

	if err := s.ensureFitnessStream(ctx); err != nil {
		return fmt.Errorf("failed to ensure fitness stream: %w", err)
	}

	if err := s.subscribeToFitnessEvents(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to fitness events: %w", err)
	}

	s.logger.Info("All event subscriptions started")
	return nil
}

func (s *EventSubscriber) ensureFitnessStream(ctx context.Context) error {
	_, err := s.natsClient.JetStream().CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     FitnessEventsStream,
		Subjects: []string{FitnessEventsWildcard},
	})
	return err
}

func (s *EventSubscriber) subscribeToFitnessEvents(ctx context.Context) error {
	cfg := natsbroker.ConsumerConfig{
		StreamName:    FitnessEventsStream,
		ConsumerName:  "leaderboard-fitness-consumer",
		Durable:       "leaderboard-fitness-consumer",
		FilterSubject: FitnessSynced,
		AckPolicy:     "explicit",
	}

	s.logger.Info("Subscribing to fitness events",
		"stream", cfg.StreamName,
		"consumer", cfg.ConsumerName,
	)

	return s.subscriber.Subscribe(ctx, cfg, s.handleFitnessEvents)
}

func (s *EventSubscriber) handleFitnessEvents(ctx context.Context, msg jetstream.Msg) error {
	subject := msg.Subject()

	s.logger.Debug("Received fitness event", "subject", subject)

	switch subject {
	case FitnessSynced:
		return s.handleFitnessSynced(ctx, msg)
	default:
		s.logger.Warn("Unknown fitness event subject", "subject", subject)
		return nil
	}
}

func (s *EventSubscriber) handleFitnessSynced(ctx context.Context, msg jetstream.Msg) error {
	var event FitnessSync
	if err := natsbroker.UnmarshalJSON(msg, &event); err != nil {
		// Malformed payloads never become valid; ack them away instead of
		// redelivering forever.
		s.logger.Error("Dropping malformed fitness sync", "error", err)
		return nil
	}

	if event.CompetitionID == "" || event.ParticipantID == "" {
		s.logger.Warn("Dropping fitness sync without ids")
		return nil
	}

	if err := s.activityService.Ingest(ctx, &service.SyncRequest{
		CompetitionID: event.CompetitionID,
		ParticipantID: event.ParticipantID,
		Steps:         event.Steps,
		Distance:      event.Distance,
		Calories:      event.Calories,
		ActiveMinutes: event.ActiveMinutes,
		Source:        event.Source,
		Date:          event.Date,
	}); err != nil {
		return err
	}

	return nil
}
