package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/john-thuo1/sentiment/internal/adapter/classifier"
	"github.com/john-thuo1/sentiment/internal/adapter/llm"
	"github.com/john-thuo1/sentiment/internal/config"
	"github.com/john-thuo1/sentiment/internal/dataset"
	"github.com/john-thuo1/sentiment/internal/domain"
	"github.com/john-thuo1/sentiment/internal/narrative"
	"github.com/john-thuo1/sentiment/internal/policy"
	"github.com/john-thuo1/sentiment/internal/report"
	"github.com/john-thuo1/sentiment/internal/scoring"
	"github.com/john-thuo1/sentiment/testutil"
)

const reviewsCSV = "" +
	"product_name,review,month,year,date\n" +
	"Blender,Great product!,January,2023,15-01-23\n" +
	"Kettle,Broke after a week,February,2023,03-02-23\n" +
	"Toaster,\"Okay, nothing special\",March,2023,20-03-23\n"

type recordingNotifier struct {
	mu       sync.Mutex
	messages []domain.Message
}

func (n *recordingNotifier) PublishMessage(sessionID string, msg domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

type failingLLM struct{}

func (failingLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return nil, errors.New("rate limited")
}

func newTestService(t *testing.T, client llm.LLMClient) *Service {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Upload.MaxBytes = 1 << 20
	cfg.Upload.MaxRows = 100

	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	require.NoError(t, err)

	svc := New(
		testutil.NewTestSQLiteStore(t),
		scoring.NewScorer(classifier.NewMockClassifier()),
		narrative.NewGenerator(client, ""),
		cfg,
		engine,
	)
	svc.now = func() time.Time { return time.Date(2024, 5, 7, 10, 0, 0, 0, time.UTC) }
	return svc
}

func newSessionWithUpload(t *testing.T, svc *Service) string {
	t.Helper()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.IngestUpload(ctx, session.SessionID, "reviews.csv", []byte(reviewsCSV))
	require.NoError(t, err)
	return session.SessionID
}

func TestIngestUploadNormalizesDatesAndPreviews(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(session.SessionID, "sess_"))

	summary, err := svc.IngestUpload(ctx, session.SessionID, "reviews.csv", []byte(reviewsCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rows)
	assert.False(t, summary.Scored)
	require.Len(t, summary.Preview, 3)
	assert.Equal(t, "2023-01-15", summary.Preview[0].Date.Format("2006-01-02"))
}

func TestIngestUploadErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())

	_, err := svc.IngestUpload(ctx, "missing", "reviews.csv", []byte(reviewsCSV))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.IngestUpload(ctx, session.SessionID, "reviews.xlsx", []byte(reviewsCSV))
	var pe *domain.PolicyError
	assert.True(t, errors.As(err, &pe))

	_, err = svc.IngestUpload(ctx, session.SessionID, "reviews.csv", []byte("product_name,review\nA,b\n"))
	var se *domain.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"month", "year"}, se.Missing)

	_, err = svc.IngestUpload(ctx, session.SessionID, "reviews.csv", []byte("product_name,review,month,year,date\nA,b,May,2024,31/31/2024\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidDateFormat)
}

func TestIngestUploadRowLimit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())
	svc.config.Upload.MaxRows = 2

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.IngestUpload(ctx, session.SessionID, "reviews.csv", []byte(reviewsCSV))
	var pe *domain.PolicyError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reasons[0], "rows")
}

func TestAnalyzeScoresAndExports(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())
	sessionID := newSessionWithUpload(t, svc)

	_, _, err := svc.Export(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrNotScored)

	result, err := svc.Analyze(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, result.Scored)
	assert.Equal(t, 3, result.Scoring.Scored)
	assert.Equal(t, 5, result.Preview[0].SentimentScore)
	assert.Equal(t, domain.LabelPositive, result.Preview[0].Overall)
	assert.Equal(t, domain.LabelNegative, result.Preview[1].Overall)
	assert.Equal(t, domain.LabelNeutral, result.Preview[2].Overall)

	name, data, err := svc.Export(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "reviews_updated_07-05-24.csv", name)

	reimported, err := dataset.LoadScored(name, data)
	require.NoError(t, err)
	assert.Len(t, reimported.Records, 3)
	assert.Equal(t, []string{"product_name", "review", "month", "year", "date", "sentiment score", "overall"}, reimported.Columns)
	assert.Equal(t, "2023-01-15", reimported.Records[0].Fields[4])
}

func TestAnalyzeWithoutDataset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, session.SessionID)
	assert.ErrorIs(t, err, domain.ErrNoDataset)
}

func TestImportScoredEnablesInsights(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	scored := "product_name,review,sentiment score\nKettle,great,5\nKettle,awful,1\n"
	summary, err := svc.ImportScored(ctx, session.SessionID, "old_updated.csv", []byte(scored))
	require.NoError(t, err)
	assert.True(t, summary.Scored)

	in, err := svc.Insights(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Rows)
	assert.Len(t, in.OverallCounts, 2)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderCharts(ctx, session.SessionID, &buf, []report.View{report.ViewOverallCounts}))
	assert.Contains(t, buf.String(), report.ViewOverallCounts.Title())
}

func TestRecommendOncePerSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	sessionID := newSessionWithUpload(t, svc)

	_, _, err := svc.Recommend(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrNotScored)

	_, err = svc.Analyze(ctx, sessionID)
	require.NoError(t, err)

	first, created, err := svc.Recommend(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAssistant, first.Role)
	assert.Contains(t, first.Content, "[MOCK]")

	again, created, err := svc.Recommend(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.MessageID, again.MessageID)

	transcript, err := svc.Transcript(ctx, sessionID, 0)
	require.NoError(t, err)
	assert.Len(t, transcript, 1)
	assert.Len(t, notifier.messages, 1)

	session, err := svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, session.RecommendationDone)
}

func TestFollowUpAppendsToTranscript(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, llm.NewMockClient())
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	sessionID := newSessionWithUpload(t, svc)

	_, err := svc.FollowUp(ctx, sessionID, "what now?")
	assert.ErrorIs(t, err, domain.ErrNoRecommendation)

	_, err = svc.Analyze(ctx, sessionID)
	require.NoError(t, err)
	_, _, err = svc.Recommend(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.FollowUp(ctx, sessionID, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)

	reply, err := svc.FollowUp(ctx, sessionID, "Which product needs work?")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Which product needs work?")

	transcript, err := svc.Transcript(ctx, sessionID, 0)
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal(t, domain.RoleAssistant, transcript[0].Role)
	assert.Equal(t, domain.RoleUser, transcript[1].Role)
	assert.Equal(t, domain.RoleAssistant, transcript[2].Role)
	assert.Len(t, notifier.messages, 3)
}

func TestRecommendSurfacesUpstreamErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, failingLLM{})
	sessionID := newSessionWithUpload(t, svc)

	_, err := svc.Analyze(ctx, sessionID)
	require.NoError(t, err)

	_, _, err = svc.Recommend(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	session, err := svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, session.RecommendationDone)
}

func TestGetSessionNotFound(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionLocksReleased(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := svc.Insights(ctx, fmt.Sprintf("sess_missing_%d", i))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}

	sessionID := newSessionWithUpload(t, svc)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Analyze(ctx, sessionID)
		}()
	}
	wg.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}
