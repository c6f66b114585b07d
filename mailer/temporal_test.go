package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"
)

func TestDeliverEmailWorkflow_RunsActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	tr := &recordingTransport{}
	env.RegisterActivity(&Activities{Transport: tr})

	msg := Message{From: Address{Email: "robot@example.com"}, To: "a@example.com", Subject: "s", Body: "b"}
	env.ExecuteWorkflow(DeliverEmailWorkflow, msg)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res DeliveryResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, "<1@test>", res.MessageID)
	assert.Equal(t, []Message{msg}, tr.sent)
}

// fakeRun fails the test if Send waits for the workflow result.
type fakeRun struct {
	client.WorkflowRun
	t  *testing.T
	id string
}

func (f *fakeRun) GetID() string { return f.id }

func (f *fakeRun) Get(context.Context, interface{}) error {
	f.t.Error("Send must not wait for the delivery result")
	return nil
}

type fakeStarter struct {
	opts client.StartWorkflowOptions
	args []interface{}
	run  client.WorkflowRun
	err  error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, opts client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.opts, f.args = opts, args
	return f.run, f.err
}

func TestTemporalTransport_Send(t *testing.T) {
	starter := &fakeStarter{run: &fakeRun{t: t, id: "email-123"}}
	tr := &TemporalTransport{Client: starter, TaskQueue: "ajax-mail"}

	msg := Message{To: "a@example.com"}
	res, err := tr.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "email-123", res.MessageID)
	assert.Equal(t, "ajax-mail", starter.opts.TaskQueue)
	assert.Contains(t, starter.opts.ID, "email-")
	assert.Equal(t, []interface{}{msg}, starter.args)
}

func TestTemporalTransport_StartError(t *testing.T) {
	tr := &TemporalTransport{Client: &fakeStarter{err: errors.New("namespace not found")}}
	_, err := tr.Send(context.Background(), Message{})
	assert.ErrorContains(t, err, "start delivery workflow: namespace not found")
}
