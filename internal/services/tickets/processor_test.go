package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

type fakeQueryService struct {
	result *models.QueryResult
	err    error

	gotQuestion string
}

func (f *fakeQueryService) Answer(_ context.Context, req interfaces.QueryRequest) (*models.QueryResult, error) {
	f.gotQuestion = req.Question
	return f.result, f.err
}

func (f *fakeQueryService) AnswerAdvanced(_ context.Context, req interfaces.AdvancedQueryRequest) (*models.QueryResult, error) {
	return f.result, f.err
}

type fakeTicketClient struct {
	err error

	calls []models.TicketUpdate
	ids   []string
}

func (f *fakeTicketClient) UpdateStatus(_ context.Context, ticketID string, update models.TicketUpdate) error {
	f.ids = append(f.ids, ticketID)
	f.calls = append(f.calls, update)
	return f.err
}

type fakeNotifier struct {
	err error

	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func newTestProcessor(query *fakeQueryService, client *fakeTicketClient, notifier *fakeNotifier) *Processor {
	return NewProcessor(query, client, notifier, 0.5, arbor.NewLogger())
}

func TestProcessMessage_AutoResolve(t *testing.T) {
	query := &fakeQueryService{result: &models.QueryResult{
		Answer:            "Restart the agent from the settings page.",
		OverallConfidence: 85,
	}}
	client := &fakeTicketClient{}
	notifier := &fakeNotifier{}
	proc := newTestProcessor(query, client, notifier)

	event := []byte(`{"id":"t-1","ticketNumber":"TKT-100","title":"Agent offline","description":"The agent shows offline"}`)
	require.NoError(t, proc.ProcessMessage(context.Background(), event))

	assert.Equal(t, "Agent offline. The agent shows offline", query.gotQuestion)

	require.Len(t, client.calls, 1)
	assert.Equal(t, "t-1", client.ids[0])
	assert.Equal(t, models.TicketStatusResolved, client.calls[0].Status)
	assert.Equal(t, "Restart the agent from the settings page.", client.calls[0].Answer)
	assert.Equal(t, models.ResolvedByRAG, client.calls[0].ResolvedBy)
	assert.False(t, client.calls[0].RequiresManualReview)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Restart the agent from the settings page.", notifier.messages[0])
}

func TestProcessMessage_Escalate(t *testing.T) {
	query := &fakeQueryService{result: &models.QueryResult{
		Answer:            "not sure",
		OverallConfidence: 42,
	}}
	client := &fakeTicketClient{}
	notifier := &fakeNotifier{}
	proc := newTestProcessor(query, client, notifier)

	event := []byte(`{"id":"t-2","title":"Weird crash","description":"It crashed"}`)
	require.NoError(t, proc.ProcessMessage(context.Background(), event))

	require.Len(t, client.calls, 1)
	assert.Equal(t, models.TicketStatusInProgress, client.calls[0].Status)
	assert.True(t, client.calls[0].RequiresManualReview)
	assert.Empty(t, client.calls[0].Answer)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Ticket sent for manual review", notifier.messages[0])
}

func TestProcessMessage_ThresholdIsExclusive(t *testing.T) {
	// Exactly at the threshold escalates; only strictly above resolves.
	query := &fakeQueryService{result: &models.QueryResult{
		Answer:            "maybe",
		OverallConfidence: 50,
	}}
	client := &fakeTicketClient{}
	notifier := &fakeNotifier{}
	proc := newTestProcessor(query, client, notifier)

	event := []byte(`{"id":"t-3","title":"Edge case"}`)
	require.NoError(t, proc.ProcessMessage(context.Background(), event))

	require.Len(t, client.calls, 1)
	assert.Equal(t, models.TicketStatusInProgress, client.calls[0].Status)
}

func TestProcessMessage_InvalidJSON(t *testing.T) {
	query := &fakeQueryService{}
	client := &fakeTicketClient{}
	proc := newTestProcessor(query, client, &fakeNotifier{})

	err := proc.ProcessMessage(context.Background(), []byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrParse))
	assert.Empty(t, client.calls)
}

func TestProcessMessage_MissingID(t *testing.T) {
	proc := newTestProcessor(&fakeQueryService{}, &fakeTicketClient{}, &fakeNotifier{})

	err := proc.ProcessMessage(context.Background(), []byte(`{"title":"no id"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrParse))
}

func TestProcessMessage_UpdateFailureSkipsNotification(t *testing.T) {
	query := &fakeQueryService{result: &models.QueryResult{
		Answer:            "answer",
		OverallConfidence: 90,
	}}
	client := &fakeTicketClient{err: errors.New("ticket service down")}
	notifier := &fakeNotifier{}
	proc := newTestProcessor(query, client, notifier)

	err := proc.ProcessMessage(context.Background(), []byte(`{"id":"t-4","title":"q"}`))
	require.Error(t, err)
	assert.Empty(t, notifier.messages)
}

func TestProcessMessage_NotificationFailureIsBestEffort(t *testing.T) {
	query := &fakeQueryService{result: &models.QueryResult{
		Answer:            "answer",
		OverallConfidence: 90,
	}}
	client := &fakeTicketClient{}
	notifier := &fakeNotifier{err: errors.New("channel closed")}
	proc := newTestProcessor(query, client, notifier)

	require.NoError(t, proc.ProcessMessage(context.Background(), []byte(`{"id":"t-5","title":"q"}`)))
	require.Len(t, client.calls, 1)
	assert.Equal(t, models.TicketStatusResolved, client.calls[0].Status)
}

func TestProcessMessage_QueryFailure(t *testing.T) {
	query := &fakeQueryService{err: models.ErrRetrieval}
	client := &fakeTicketClient{}
	proc := newTestProcessor(query, client, &fakeNotifier{})

	err := proc.ProcessMessage(context.Background(), []byte(`{"id":"t-6","title":"q"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRetrieval))
	assert.Empty(t, client.calls)
}
