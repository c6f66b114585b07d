package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Activities wraps the Transport that actually delivers mail on the worker.
type Activities struct {
	Transport Transport
}

func (a *Activities) Deliver(ctx context.Context, msg Message) (DeliveryResult, error) {
	return a.Transport.Send(ctx, msg)
}

// DeliverEmailWorkflow runs the Deliver activity with a durable retry policy.
func DeliverEmailWorkflow(ctx workflow.Context, msg Message) (DeliveryResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    5 * time.Minute,
			MaximumAttempts:    10,
		},
	})

	var a *Activities
	var res DeliveryResult
	err := workflow.ExecuteActivity(ctx, a.Deliver, msg).Get(ctx, &res)
	return res, err
}

type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalTransport hands each message to DeliverEmailWorkflow and returns as
// soon as the workflow is started. Delivery and its retries happen on the
// worker, so MessageID is the workflow ID and a later SMTP failure is not
// reported to the caller.
type TemporalTransport struct {
	Client    workflowStarter
	TaskQueue string
}

func (t *TemporalTransport) Send(ctx context.Context, msg Message) (DeliveryResult, error) {
	run, err := t.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "email-" + uuid.NewString(),
		TaskQueue: t.TaskQueue,
	}, DeliverEmailWorkflow, msg)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("start delivery workflow: %w", err)
	}
	return DeliveryResult{MessageID: run.GetID()}, nil
}
