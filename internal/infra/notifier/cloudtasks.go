//go:build gcloud

package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/KasumiMercury/primind-reminder-scheduler/internal/domain"
)

const defaultDispatchDeadline = 30 * time.Second

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	// Endpoint overrides the API endpoint, e.g. for an emulator.
	Endpoint string
}

// CloudTasksNotifier hands each delivery to a Cloud Tasks queue that pushes
// it to the target URL. Cloud Tasks owns the retries.
type CloudTasksNotifier struct {
	client    *cloudtasks.Client
	queuePath string
	targetURL string
}

func NewCloudTasksNotifier(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksNotifier, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := cloudtasks.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	return &CloudTasksNotifier{
		client:    client,
		queuePath: fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL: cfg.TargetURL,
	}, nil
}

// taskID derives a stable task name so a re-fired delivery is deduplicated.
func taskID(d domain.Delivery) string {
	return fmt.Sprintf("%s-%d", d.JobID, d.FiredAt.Unix())
}

func (n *CloudTasksNotifier) Notify(ctx context.Context, d domain.Delivery) error {
	body, err := json.Marshal(newDeliveryMessage(d))
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	req := &cloudtaskspb.CreateTaskRequest{
		Parent: n.queuePath,
		Task: &cloudtaskspb.Task{
			Name: n.queuePath + "/tasks/" + taskID(d),
			MessageType: &cloudtaskspb.Task_HttpRequest{
				HttpRequest: &cloudtaskspb.HttpRequest{
					HttpMethod: cloudtaskspb.HttpMethod_POST,
					Url:        n.targetURL,
					Headers: map[string]string{
						"Content-Type": "application/json",
						"message_type": "reminder.delivery",
					},
					Body: body,
				},
			},
			DispatchDeadline: durationpb.New(defaultDispatchDeadline),
		},
	}

	task, err := n.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.DebugContext(ctx, "delivery task already exists",
				slog.String("job_id", d.JobID),
			)
			return nil
		}
		slog.ErrorContext(ctx, "failed to create delivery task",
			slog.String("job_id", d.JobID),
			slog.String("queue", n.queuePath),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create delivery task: %w", err)
	}

	slog.DebugContext(ctx, "delivery task created",
		slog.String("job_id", d.JobID),
		slog.String("task", task.GetName()),
	)
	return nil
}

func (n *CloudTasksNotifier) Close() error {
	return n.client.Close()
}
