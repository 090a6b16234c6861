package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
)

// Publisher defines the interface for publishing normalized events to the
// ingestion queue
type Publisher interface {
	PublishEvent(ctx context.Context, event *domain.Event) error
}

// Consumer defines the interface for consuming messages from the queue
type Consumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
