//go:generate mockgen -source=events_publisher.go -destination=../mocks/events_publisher.go -package=mocks

package interfaces

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
