package notifier

import (
	"time"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

// deliveryMessage is the JSON body sent to downstream push services.
type deliveryMessage struct {
	JobID         string   `json:"job_id"`
	Channel       string   `json:"channel"`
	Kind          string   `json:"kind"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	MemberIDs     []string `json:"member_ids"`
	Informational bool     `json:"informational"`
	FiredAt       string   `json:"fired_at"`
}

func newDeliveryMessage(d domain.Delivery) deliveryMessage {
	return deliveryMessage{
		JobID:         d.JobID,
		Channel:       d.Channel.String(),
		Kind:          d.Kind.String(),
		Title:         d.Payload.Title,
		Body:          d.Payload.Body,
		MemberIDs:     d.Payload.MemberIDs,
		Informational: d.Payload.Informational,
		FiredAt:       d.FiredAt.UTC().Format(time.RFC3339),
	}
}
