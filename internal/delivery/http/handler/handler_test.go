package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skill-assess/internal/delivery/http/middleware"
	"skill-assess/internal/domain/assessment"
	"skill-assess/internal/domain/matching"
	"skill-assess/internal/domain/skill"
	"skill-assess/internal/domain/user"
	"skill-assess/internal/usecase"
)

type fakeAssessments struct {
	outcome usecase.AnalysisOutcome
	err     error
	got     usecase.AnalyzeInput
}

func (f *fakeAssessments) GenerateQuestions(context.Context, uuid.UUID, []skill.Skill) (usecase.QuestionSet, error) {
	return usecase.QuestionSet{Questions: []string{"q1"}, RemainingQuota: 5}, f.err
}

func (f *fakeAssessments) Analyze(_ context.Context, _ uuid.UUID, in usecase.AnalyzeInput) (usecase.AnalysisOutcome, error) {
	f.got = in
	return f.outcome, f.err
}

func (f *fakeAssessments) History(context.Context, uuid.UUID, int) ([]assessment.Record, error) {
	return nil, f.err
}

type fakeMatching struct {
	err error
}

func (f *fakeMatching) RankForJob(context.Context, uuid.UUID) ([]matching.Result, error) {
	return []matching.Result{{CandidateID: uuid.New(), Score: 85}}, f.err
}

func (f *fakeMatching) RankForCompany(context.Context, uuid.UUID) ([]matching.Result, error) {
	return nil, f.err
}

func (f *fakeMatching) ScoreForCandidate(context.Context, uuid.UUID, uuid.UUID) (matching.Result, error) {
	return matching.Result{}, f.err
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestApp authenticates every request as userID with role unless userID
// is nil.
func newTestApp(userID uuid.UUID, role user.Role) (*fiber.App, fiber.Router) {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	r := app.Group("", func(c fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.CtxUserIDKey, userID)
			c.Locals(middleware.CtxRoleKey, role)
		}
		return c.Next()
	})
	return app, r
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("expected json envelope, got %q", raw)
	}
	return resp.StatusCode, env
}

func TestAnalyze_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("check: %w", assessment.ErrQuotaExceeded), http.StatusTooManyRequests},
		{usecase.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("%w: profile", usecase.ErrNotFound), http.StatusNotFound},
		{usecase.ErrForbidden, http.StatusForbidden},
		{usecase.ErrAssessmentInProgress, http.StatusConflict},
		{usecase.ErrOracleUnavailable, http.StatusServiceUnavailable},
		{usecase.ErrMalformedResponse, http.StatusBadGateway},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app, r := newTestApp(uuid.New(), "candidate")
		NewAssessmentHandler(&fakeAssessments{err: tc.err}).RegisterRoutes(r)

		status, env := do(t, app, http.MethodPost, "/me/assessments", `{"answers":[{"question":"q","answer":"a"}]}`)
		if status != tc.status || env.Status != tc.status {
			t.Fatalf("%v: expected %d, got %d (%+v)", tc.err, tc.status, status, env)
		}
	}
}

func TestAnalyze_DegradedIsStillOK(t *testing.T) {
	fake := &fakeAssessments{outcome: usecase.AnalysisOutcome{
		Analysis:       assessment.DefaultAnalysis([]skill.Skill{{Name: "Go", ProficiencyLevel: 2}}),
		Degraded:       true,
		Reason:         assessment.ReasonOracleTimeout,
		Profile:        skill.Profile{Kind: skill.KindCandidate, Quota: 1},
		RemainingQuota: 4,
	}}
	app, r := newTestApp(uuid.New(), "candidate")
	NewAssessmentHandler(fake).RegisterRoutes(r)

	status, env := do(t, app, http.MethodPost, "/me/assessments", `{"answers":[{"question":"What is a goroutine?","answer":"a thread"}]}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var data struct {
		Degraded       bool   `json:"degraded"`
		Reason         string `json:"reason"`
		RemainingQuota int    `json:"remaining_quota"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.Degraded || data.Reason != string(assessment.ReasonOracleTimeout) || data.RemainingQuota != 4 {
		t.Fatalf("unexpected body %+v", data)
	}
	if len(fake.got.Answers) != 1 || fake.got.Answers[0].Question != "What is a goroutine?" {
		t.Fatalf("answers not passed through: %+v", fake.got)
	}
}

func TestHandlers_RequireUser(t *testing.T) {
	app, r := newTestApp(uuid.Nil, "")
	NewAssessmentHandler(&fakeAssessments{}).RegisterRoutes(r)

	status, _ := do(t, app, http.MethodPost, "/me/assessments/questions", `{"skills":[{"name":"Go"}]}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestMatches_CompanyOnly(t *testing.T) {
	jobID := uuid.New()

	app, r := newTestApp(uuid.New(), "candidate")
	NewMatchHandler(&fakeMatching{}).RegisterCompanyRoutes(r, middleware.RequireRole(user.RoleCompany))
	if status, _ := do(t, app, http.MethodGet, "/jobs/"+jobID.String()+"/matches", ""); status != http.StatusForbidden {
		t.Fatalf("expected 403 for candidate, got %d", status)
	}

	app, r = newTestApp(uuid.New(), "company")
	NewMatchHandler(&fakeMatching{}).RegisterCompanyRoutes(r, middleware.RequireRole(user.RoleCompany))
	status, env := do(t, app, http.MethodGet, "/jobs/"+jobID.String()+"/matches", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var data struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.Total != 1 {
		t.Fatalf("expected one ranked candidate, got %s", env.Data)
	}

	app, r = newTestApp(uuid.New(), "company")
	NewMatchHandler(&fakeMatching{err: fmt.Errorf("rank: %w", matching.ErrInvariantViolation)}).RegisterCompanyRoutes(r, middleware.RequireRole(user.RoleCompany))
	if status, _ := do(t, app, http.MethodGet, "/jobs/"+jobID.String()+"/matches", ""); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
}

func TestMatches_BadJobID(t *testing.T) {
	app, r := newTestApp(uuid.New(), "candidate")
	NewMatchHandler(&fakeMatching{}).RegisterRoutes(r)
	if status, _ := do(t, app, http.MethodGet, "/jobs/not-a-uuid/matches/me", ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}
