package publisher

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"moments/events"
	"moments/natsclient"
)

// EventPublisher emits domain events on NATS. Publishing is best-effort:
// failures are logged, never bubbled to the request that triggered them.
type EventPublisher struct {
	nats *natsclient.Client
}

func NewEventPublisher(nats *natsclient.Client) *EventPublisher {
	return &EventPublisher{nats: nats}
}

func (p *EventPublisher) PublishUserRegistered(event events.UserRegisteredEvent) {
	p.publish(events.UserRegistered, event)
}

func (p *EventPublisher) PublishUserFollowed(event events.UserFollowedEvent) {
	p.publish(events.UserFollowed, event)
}

func (p *EventPublisher) PublishUserUnfollowed(event events.UserUnfollowedEvent) {
	p.publish(events.UserUnfollowed, event)
}

func (p *EventPublisher) PublishPostCreated(event events.PostCreatedEvent) {
	p.publish(events.PostCreated, event)
}

func (p *EventPublisher) PublishPostDeleted(event events.PostDeletedEvent) {
	p.publish(events.PostDeleted, event)
}

func (p *EventPublisher) publish(subject string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to marshal %s event: %v", subject, err)
		return
	}

	if err := p.nats.Publish(subject, data); err != nil {
		log.Errorf("failed to publish %s event: %v", subject, err)
		return
	}

	log.Debugf("published event: %s", subject)
}
