package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Message is the payload enqueued for the notification delivery worker.
type Message struct {
	Kind       Kind      `json:"kind"`
	Recipient  Recipient `json:"recipient"`
	Payload    Payload   `json:"payload"`
	EnqueuedAt string    `json:"enqueuedAt"`
	Version    int       `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Kind == "" {
		return Message{}, fmt.Errorf("notification message missing kind")
	}
	return msg, nil
}

// SQSNotifier enqueues notifications for out-of-process delivery.
type SQSNotifier struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSNotifier constructs an SQS-backed notifier.
func NewSQSNotifier(ctx context.Context, region, queueURL string) (*SQSNotifier, error) {
	if strings.TrimSpace(queueURL) == "" {
		return nil, fmt.Errorf("HH_SQS_QUEUE_URL is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSNotifier{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Send delivers a notification message to the configured SQS queue.
func (s *SQSNotifier) Send(ctx context.Context, kind Kind, to Recipient, payload Payload) error {
	body, err := EncodeMessage(Message{
		Kind:       kind,
		Recipient:  to,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	})
	if err != nil {
		return fmt.Errorf("encode notification message: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ Notifier = (*SQSNotifier)(nil)
