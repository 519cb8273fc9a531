package webhook

import (
	"github.com/marcelsud/activity-refiner/fault"
)

const subscribeMode = "subscribe"

// Challenge is the subscription handshake sent by the source
type Challenge struct {
	Mode        string
	VerifyToken string
	Challenge   string
}

// Verify accepts the handshake only for the subscribe mode with the exact
// verify token and a non-empty challenge
func (c Challenge) Verify(verifyToken string) error {
	const op = "webhook.handshake"

	if c.Mode != subscribeMode || verifyToken == "" || c.VerifyToken != verifyToken {
		return fault.Newf(fault.Authorization, op, "mode or verify token mismatch")
	}
	if c.Challenge == "" {
		return fault.Newf(fault.Validation, op, "challenge is required")
	}
	return nil
}

// Gate filters validated events down to the ones worth scheduling
type Gate struct {
	SubscriptionID int64
	AthleteID      int64
	Handled        AspectSet
}

// Verdict explains why an event was or was not admitted
type Verdict string

const (
	Admitted        Verdict = "admitted"
	ForeignOwner    Verdict = "foreign_owner"
	NotAnActivity   Verdict = "not_an_activity"
	UnhandledAspect Verdict = "unhandled_aspect"
)

// Admit checks subscription, owner, object and aspect in that order.
// A foreign subscription is an Authorization error; everything else that
// is filtered out is a silent no-op.
func (g Gate) Admit(e Event) (Verdict, error) {
	if e.SubscriptionID != g.SubscriptionID {
		return "", fault.Newf(fault.Authorization, "webhook.admit", "unknown subscription %d", e.SubscriptionID)
	}
	if e.OwnerID != g.AthleteID {
		return ForeignOwner, nil
	}
	if e.ObjectType != Activity {
		return NotAnActivity, nil
	}
	if !g.Handled.Contains(e.AspectType) {
		return UnhandledAspect, nil
	}
	return Admitted, nil
}
