package subscriber

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"moments/events"
	"moments/natsclient"
	"moments/repository"
)

// EventSubscriber reacts to domain events: it keeps the redis feed cache
// coherent with post and follow mutations, and audit-logs registrations.
type EventSubscriber struct {
	nats     *natsclient.Client
	feedRepo repository.FeedRepository
}

func NewEventSubscriber(nats *natsclient.Client, feedRepo repository.FeedRepository) *EventSubscriber {
	return &EventSubscriber{
		nats:     nats,
		feedRepo: feedRepo,
	}
}

// Start registers all subscriptions. Handlers run on the NATS delivery
// goroutine; each invalidation uses its own context.
func (s *EventSubscriber) Start() error {
	subjects := map[string]nats.MsgHandler{
		events.UserRegistered: s.handleUserRegistered,
		events.UserFollowed:   s.handleUserFollowed,
		events.UserUnfollowed: s.handleUserUnfollowed,
		events.PostCreated:    s.handlePostCreated,
		events.PostDeleted:    s.handlePostDeleted,
	}

	for subject, handler := range subjects {
		if _, err := s.nats.Subscribe(subject, handler); err != nil {
			return err
		}
		log.Infof("subscribed to %s", subject)
	}

	return nil
}

func (s *EventSubscriber) handleUserRegistered(msg *nats.Msg) {
	var event events.UserRegisteredEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("failed to unmarshal %s event: %v", msg.Subject, err)
		return
	}

	log.WithFields(log.Fields{
		"user_id":    event.UserID,
		"username":   event.Username,
		"profile_id": event.ProfileID,
	}).Info("user registered")
}

func (s *EventSubscriber) handleUserFollowed(msg *nats.Msg) {
	var event events.UserFollowedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("failed to unmarshal %s event: %v", msg.Subject, err)
		return
	}

	// The follower's timeline now includes another author.
	if err := s.feedRepo.InvalidateUser(context.Background(), event.OwnerID); err != nil {
		log.Errorf("failed to invalidate feed for %s: %v", event.OwnerID, err)
	}
}

func (s *EventSubscriber) handleUserUnfollowed(msg *nats.Msg) {
	var event events.UserUnfollowedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("failed to unmarshal %s event: %v", msg.Subject, err)
		return
	}

	if err := s.feedRepo.InvalidateUser(context.Background(), event.OwnerID); err != nil {
		log.Errorf("failed to invalidate feed for %s: %v", event.OwnerID, err)
	}
}

func (s *EventSubscriber) handlePostCreated(msg *nats.Msg) {
	var event events.PostCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("failed to unmarshal %s event: %v", msg.Subject, err)
		return
	}

	if err := s.feedRepo.InvalidateFollowersOf(context.Background(), event.OwnerID); err != nil {
		log.Errorf("failed to invalidate follower feeds of %s: %v", event.OwnerID, err)
	}
}

func (s *EventSubscriber) handlePostDeleted(msg *nats.Msg) {
	var event events.PostDeletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Errorf("failed to unmarshal %s event: %v", msg.Subject, err)
		return
	}

	if err := s.feedRepo.InvalidateFollowersOf(context.Background(), event.OwnerID); err != nil {
		log.Errorf("failed to invalidate follower feeds of %s: %v", event.OwnerID, err)
	}
}
