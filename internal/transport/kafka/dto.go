package kafka

import (
	"strings"
	"time"

	"fleet-platform/internal/realtime"
)

// TopicPrefix prefixes the Kafka topic carrying each realtime topic.
const TopicPrefix = "fleet."

// KafkaTopic returns the Kafka topic of a realtime topic.
func KafkaTopic(t realtime.Topic) string { return TopicPrefix + string(t) }

// RealtimeTopic returns the realtime topic carried by a Kafka topic, or "" for foreign topics.
func RealtimeTopic(kafkaTopic string) realtime.Topic {
	t, ok := strings.CutPrefix(kafkaTopic, TopicPrefix)
	if !ok || !realtime.Topic(t).Valid() {
		return ""
	}
	return realtime.Topic(t)
}

// KafkaTopics returns the Kafka topics of every realtime topic.
func KafkaTopics() []string {
	out := make([]string, 0, len(realtime.Topics()))
	for _, t := range realtime.Topics() {
		out = append(out, KafkaTopic(t))
	}
	return out
}

// EventDTO is the wire form of realtime.ChangeEvent.
type EventDTO struct {
	ID              string         `json:"id"`
	Topic           string         `json:"topic"`
	Table           string         `json:"table"`
	Type            string         `json:"type"`
	Record          map[string]any `json:"record"`
	OldRecord       map[string]any `json:"old_record,omitempty"`
	CommitTimestamp time.Time      `json:"commit_timestamp"`
}

// FromDomain converts a change event to its DTO.
func FromDomain(ev realtime.ChangeEvent) EventDTO {
	return EventDTO{
		ID:              ev.ID,
		Topic:           string(ev.Topic),
		Table:           ev.Table,
		Type:            string(ev.Type),
		Record:          ev.Record,
		OldRecord:       ev.OldRecord,
		CommitTimestamp: ev.CommitTimestamp,
	}
}

// ToDomain converts EventDTO to realtime.ChangeEvent.
func ToDomain(dto EventDTO) realtime.ChangeEvent {
	return realtime.ChangeEvent{
		ID:              strings.TrimSpace(dto.ID),
		Topic:           realtime.Topic(strings.TrimSpace(dto.Topic)),
		Table:           strings.TrimSpace(dto.Table),
		Type:            realtime.EventType(strings.ToUpper(strings.TrimSpace(dto.Type))),
		Record:          dto.Record,
		OldRecord:       dto.OldRecord,
		CommitTimestamp: dto.CommitTimestamp,
	}
}
