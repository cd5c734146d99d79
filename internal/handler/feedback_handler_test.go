package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/1234-ad/auto-feedback-generator/internal/dto"
	"github.com/1234-ad/auto-feedback-generator/internal/events"
	"github.com/1234-ad/auto-feedback-generator/internal/handler"
	"github.com/1234-ad/auto-feedback-generator/internal/history"
	"github.com/1234-ad/auto-feedback-generator/internal/rubric"
	"github.com/1234-ad/auto-feedback-generator/internal/utils"
	"github.com/1234-ad/auto-feedback-generator/internal/validation"
	"github.com/1234-ad/auto-feedback-generator/pkg/ai"
)

type mockFeedbackService struct {
	lastPayload dto.FeedbackRequest
	response    dto.FeedbackResponse
	err         error
	calls       int
}

func (m *mockFeedbackService) Generate(_ context.Context, req dto.FeedbackRequest) (dto.FeedbackResponse, error) {
	m.calls++
	m.lastPayload = req
	if m.err != nil {
		return dto.FeedbackResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockFeedbackService) Catalog() dto.TemplateCatalogResponse {
	return dto.TemplateCatalogResponse{
		FeedbackTypes: []string{"constructive", "encouraging", "detailed", "brief"},
		Subjects:      []string{"Mathematics", "Science", "English", "History", "Art", "Physical Education", "General"},
		SampleRubric: rubric.Rubric{Entries: []rubric.Entry{
			{Name: "communication", Criterion: rubric.Criterion{Score: 8, MaxScore: 10}},
			{Name: "teamwork", Criterion: rubric.Criterion{Score: 6, MaxScore: 10}},
		}},
	}
}

func generatedResponse() dto.FeedbackResponse {
	return dto.FeedbackResponse{
		Success:  true,
		Feedback: "Maria, your essay shows a strong command of structure.",
		RubricSummary: rubric.Summary{
			TotalScore:        16,
			TotalMax:          20,
			OverallPercentage: 80,
			CriteriaCount:     2,
			PerformanceTier:   "Good",
		},
		Metadata: dto.FeedbackMetadata{
			StudentName:     "Maria Garcia",
			AssignmentTitle: "Persuasive Essay",
			GeneratedAt:     time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
			FeedbackType:    "constructive",
			Subject:         "English",
		},
	}
}

func newFeedbackApp(svc *mockFeedbackService, store *history.Store) *fiber.App {
	logger := zerolog.New(io.Discard)
	if store == nil {
		store = history.NewStore(nil, 0, logger)
	}

	app := fiber.New()
	group := app.Group("/api/v1/feedback")
	handler.NewFeedbackHandler(svc, store, events.NewPublisher(nil, logger), logger).Register(group)
	return app
}

func newTestHistoryStore(t *testing.T) *history.Store {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return history.NewStore(client, 10, zerolog.New(io.Discard))
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getPath(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

const generatePayload = `{
	"student_name": "Maria Garcia",
	"assignment_title": "Persuasive Essay",
	"subject": "English",
	"feedback_type": "constructive",
	"rubric_data": {
		"argument": {"score": 9, "max_score": 10},
		"structure": {"score": 7, "max_score": 10}
	}
}`

func TestFeedbackHandler_GenerateSuccess(t *testing.T) {
	svc := &mockFeedbackService{response: generatedResponse()}
	app := newFeedbackApp(svc, nil)

	resp := postJSON(t, app, "/api/v1/feedback", generatePayload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response dto.FeedbackResponse
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, svc.response.Feedback, response.Feedback)
	require.Equal(t, "Good", response.RubricSummary.PerformanceTier)
	require.Equal(t, "Maria Garcia", response.Metadata.StudentName)

	require.Equal(t, 1, svc.calls)
	require.Equal(t, "Maria Garcia", svc.lastPayload.StudentName)
	require.Len(t, svc.lastPayload.RubricData.Entries, 2)
	require.Equal(t, "argument", svc.lastPayload.RubricData.Entries[0].Name)
}

func TestFeedbackHandler_GenerateWireFormat(t *testing.T) {
	svc := &mockFeedbackService{response: generatedResponse()}
	app := newFeedbackApp(svc, nil)

	resp := postJSON(t, app, "/api/v1/feedback", generatePayload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Contains(t, raw, "success")
	require.Contains(t, raw, "feedback")
	require.Contains(t, raw, "rubric_summary")
	require.Contains(t, raw, "metadata")

	var summary map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["rubric_summary"], &summary))
	require.Contains(t, summary, "total_score")
	require.Contains(t, summary, "total_max")
	require.Contains(t, summary, "overall_percentage")
	require.Contains(t, summary, "criteria_count")
	require.Contains(t, summary, "performance_level")
}

func TestFeedbackHandler_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "   ", "null"} {
		svc := &mockFeedbackService{response: generatedResponse()}
		app := newFeedbackApp(svc, nil)

		resp := postJSON(t, app, "/api/v1/feedback", body)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var payload utils.ErrorResponse
		decodeResponse(t, resp, &payload)
		require.Equal(t, "No data provided", payload.Error)
		require.Equal(t, "Please provide valid JSON data", payload.Message)
		require.Zero(t, svc.calls)
	}
}

func TestFeedbackHandler_MalformedJSON(t *testing.T) {
	svc := &mockFeedbackService{response: generatedResponse()}
	app := newFeedbackApp(svc, nil)

	resp := postJSON(t, app, "/api/v1/feedback", `{"student_name": `)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload utils.ErrorResponse
	decodeResponse(t, resp, &payload)
	require.Equal(t, "No data provided", payload.Error)
	require.Zero(t, svc.calls)
}

func TestFeedbackHandler_ValidationError(t *testing.T) {
	svc := &mockFeedbackService{err: &validation.Error{Errors: []string{
		"Missing required field: student_name",
		"Score cannot exceed max score for criterion: effort",
	}}}
	app := newFeedbackApp(svc, nil)

	resp := postJSON(t, app, "/api/v1/feedback", `{"rubric_data": {"effort": {"score": 12, "max_score": 10}}}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload utils.ErrorResponse
	decodeResponse(t, resp, &payload)
	require.Equal(t, "Validation failed", payload.Error)
	require.Equal(t, []string{
		"Missing required field: student_name",
		"Score cannot exceed max score for criterion: effort",
	}, payload.Details)
}

func TestFeedbackHandler_ClassifiedErrors(t *testing.T) {
	cases := []struct {
		name       string
		kind       ai.ErrorKind
		statusCode int
		message    string
	}{
		{name: "rate limited", kind: ai.KindRateLimited, statusCode: fiber.StatusTooManyRequests, message: "API rate limit exceeded. Please try again in a moment."},
		{name: "auth failed", kind: ai.KindAuthFailed, statusCode: fiber.StatusUnauthorized, message: "Authentication failed. Please check API configuration."},
		{name: "invalid request", kind: ai.KindInvalidRequest, statusCode: fiber.StatusBadRequest, message: "Invalid request. Please check your input data."},
		{name: "transient", kind: ai.KindTransient, statusCode: fiber.StatusGatewayTimeout, message: "Request timeout. Please try again."},
		{name: "unknown", kind: ai.KindUnknown, statusCode: fiber.StatusInternalServerError, message: "An unexpected error occurred. Please try again."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockFeedbackService{err: &ai.ClassifiedError{Kind: tc.kind, Message: "upstream detail"}}
			app := newFeedbackApp(svc, nil)

			resp := postJSON(t, app, "/api/v1/feedback", generatePayload)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var payload utils.ErrorResponse
			decodeResponse(t, resp, &payload)
			require.Equal(t, string(tc.kind), payload.Error)
			require.Equal(t, tc.message, payload.Message)
			require.NotContains(t, payload.Message, "upstream detail")
		})
	}
}

func TestFeedbackHandler_Templates(t *testing.T) {
	app := newFeedbackApp(&mockFeedbackService{}, nil)

	resp := getPath(t, app, "/api/v1/feedback/templates")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var catalog dto.TemplateCatalogResponse
	decodeResponse(t, resp, &catalog)
	require.Equal(t, []string{"constructive", "encouraging", "detailed", "brief"}, catalog.FeedbackTypes)
	require.Len(t, catalog.Subjects, 7)
	require.Equal(t, "communication", catalog.SampleRubric.Entries[0].Name)
}

func TestFeedbackHandler_HistoryRoundTrip(t *testing.T) {
	store := newTestHistoryStore(t)
	svc := &mockFeedbackService{response: generatedResponse()}
	app := newFeedbackApp(svc, store)

	resp := postJSON(t, app, "/api/v1/feedback", generatePayload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	second := generatedResponse()
	second.Metadata.StudentName = "Noah Kim"
	svc.response = second
	resp = postJSON(t, app, "/api/v1/feedback", generatePayload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	historyResp := getPath(t, app, "/api/v1/feedback/history")
	require.Equal(t, fiber.StatusOK, historyResp.StatusCode)

	var page dto.FeedbackHistoryResponse
	decodeResponse(t, historyResp, &page)
	require.Equal(t, 2, page.Count)
	require.Equal(t, "Noah Kim", page.History[0].StudentName)
	require.Equal(t, "Maria Garcia", page.History[1].StudentName)
	require.NotEmpty(t, page.History[0].ID)
	require.Equal(t, "Good", page.History[0].RubricSummary.PerformanceTier)

	limited := getPath(t, app, "/api/v1/feedback/history?limit=1")
	require.Equal(t, fiber.StatusOK, limited.StatusCode)

	var limitedPage dto.FeedbackHistoryResponse
	decodeResponse(t, limited, &limitedPage)
	require.Equal(t, 1, limitedPage.Count)
	require.Equal(t, "Noah Kim", limitedPage.History[0].StudentName)
}

func TestFeedbackHandler_HistoryUnavailable(t *testing.T) {
	app := newFeedbackApp(&mockFeedbackService{}, nil)

	resp := getPath(t, app, "/api/v1/feedback/history")
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var payload utils.ErrorResponse
	decodeResponse(t, resp, &payload)
	require.Equal(t, "History unavailable", payload.Error)
}

func TestFeedbackHandler_HistoryBadLimit(t *testing.T) {
	app := newFeedbackApp(&mockFeedbackService{}, newTestHistoryStore(t))

	for _, q := range []string{"?limit=abc", "?limit=-1"} {
		resp := getPath(t, app, "/api/v1/feedback/history"+q)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}
