package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/webhook"
)

const op = "webhook.payload"

// Notification is the push payload exactly as the source sends it
type Notification struct {
	// AspectType is one of create, update or delete
	AspectType string `json:"aspect_type"`

	// ObjectType is activity or athlete
	ObjectType string `json:"object_type"`

	// ObjectID is the activity id, or the athlete id for athlete events
	ObjectID int64 `json:"object_id"`

	// OwnerID is the athlete owning the object
	OwnerID int64 `json:"owner_id"`

	SubscriptionID int64 `json:"subscription_id"`

	// EventTime is seconds since the epoch
	EventTime int64 `json:"event_time"`

	// Updates lists changed fields for update events, e.g. {"title":"Messy"}
	Updates map[string]any `json:"updates"`
}

// Validate checks the fields the type checks need. Ids are left to the
// subscription and owner checks so a foreign subscription is refused
// whatever else the body carries.
func (n Notification) Validate() error {
	switch {
	case n.AspectType == "":
		return fmt.Errorf("aspect_type is required")
	case n.ObjectType == "":
		return fmt.Errorf("object_type is required")
	}
	return nil
}

// Parse decodes and validates a notification body
func Parse(data []byte) (Notification, error) {
	var n Notification

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return Notification{}, fault.New(fault.Validation, op, fmt.Errorf("unmarshaling payload: %w", err))
	}
	if dec.More() {
		return Notification{}, fault.Newf(fault.Validation, op, "trailing data after payload")
	}

	if err := n.Validate(); err != nil {
		return Notification{}, fault.New(fault.Validation, op, fmt.Errorf("validating payload: %w", err))
	}

	return n, nil
}

// Event converts the notification, rejecting unknown aspect and object types
func (n Notification) Event() (webhook.Event, error) {
	aspect, err := webhook.ParseAspectType(n.AspectType)
	if err != nil {
		return webhook.Event{}, fault.New(fault.Validation, op, err)
	}
	object, err := webhook.ParseObjectType(n.ObjectType)
	if err != nil {
		return webhook.Event{}, fault.New(fault.Validation, op, err)
	}

	var updates map[string]string
	if len(n.Updates) > 0 {
		updates = make(map[string]string, len(n.Updates))
		for k, v := range n.Updates {
			updates[k] = fmt.Sprint(v)
		}
	}

	return webhook.Event{
		AspectType:     aspect,
		ObjectType:     object,
		ObjectID:       n.ObjectID,
		OwnerID:        n.OwnerID,
		SubscriptionID: n.SubscriptionID,
		EventTime:      eventTime(n.EventTime),
		Updates:        updates,
	}, nil
}

func eventTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
