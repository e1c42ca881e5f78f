package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"timervid/jobs"
	"timervid/timeline"
	"timervid/types"
)

// fakeProcessor plans for real and pretends to render
type fakeProcessor struct {
	renderErr error
}

func (f *fakeProcessor) Plan(req types.RenderRequest) (timeline.Plan, error) {
	if err := req.Validate(); err != nil {
		return timeline.Plan{}, err
	}
	if req.Kind == types.KindCountdown {
		return timeline.PlanCountdown(*req.Countdown, timeline.DefaultOptions()), nil
	}
	plan := timeline.PlanIntervals(*req.Interval, timeline.DefaultOptions())
	if plan.Empty() {
		return plan, errors.New("timer produces an empty plan")
	}
	return plan, nil
}

func (f *fakeProcessor) ProcessRequest(_ context.Context, req types.RenderRequest) (types.RenderResult, error) {
	if f.renderErr != nil {
		return types.RenderResult{Name: req.Name(), Status: types.StatusFailed, Error: f.renderErr.Error()}, f.renderErr
	}
	return types.RenderResult{Name: req.Name(), Status: types.StatusRendered, OutputPath: "videos/x.mp4"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const tabataBody = `{
	"kind": "interval",
	"interval": {
		"name": "Tabata",
		"total_video_length": 250,
		"prepare_duration": 10,
		"intervals_repeat": 8,
		"interval_list": [
			{"name": "work", "seconds": 20, "color": "green"},
			{"name": "rest", "seconds": 10, "color": "red"}
		]
	}
}`

func TestHealth(t *testing.T) {
	ok := func() error { return nil }
	missing := func() error { return errors.New("assets/alarm.mp3: no such file") }

	cases := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all pass", []HealthCheck{{Name: "ffmpeg", Required: true, Check: ok}, {Name: "alarm", Check: ok}}, http.StatusOK, "ok"},
		{"optional asset missing", []HealthCheck{{Name: "ffmpeg", Required: true, Check: ok}, {Name: "alarm", Check: missing}}, http.StatusOK, "degraded"},
		{"ffmpeg missing", []HealthCheck{{Name: "ffmpeg", Required: true, Check: missing}, {Name: "alarm", Check: ok}}, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := NewRouter(jobs.NewManager(10), &fakeProcessor{}, c.checks...)
			w := do(t, r, http.MethodGet, "/api/health", "")
			if w.Code != c.wantCode {
				t.Fatalf("health code = %d; want %d (%s)", w.Code, c.wantCode, w.Body.String())
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != c.wantStatus || len(body.Checks) != len(c.checks) {
				t.Fatalf("health body = %+v", body)
			}
		})
	}
}

func TestPlanEndpoint(t *testing.T) {
	r := NewRouter(jobs.NewManager(10), &fakeProcessor{})

	w := do(t, r, http.MethodPost, "/api/plan", tabataBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp PlanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Plan.Segments) != 17 || resp.Duration != "04:10" {
		t.Fatalf("plan = %d segments, duration %s", len(resp.Plan.Segments), resp.Duration)
	}
	if resp.Plan.Segments[1].Label != "WORK" || resp.Plan.Segments[1].Color.G != 255 {
		t.Fatalf("first interval = %+v", resp.Plan.Segments[1])
	}

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"kind":`},
		{"unknown kind", `{"kind": "stopwatch"}`},
		{"empty interval list", `{"kind": "interval", "interval": {"name": "x", "total_video_length": 60, "intervals_repeat": 1}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if w := do(t, r, http.MethodPost, "/api/plan", c.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d; want 400", w.Code)
			}
		})
	}
}

func TestRenderAndJobs(t *testing.T) {
	manager := jobs.NewManager(10)
	r := NewRouter(manager, &fakeProcessor{})

	w := do(t, r, http.MethodPost, "/api/render", tabataBody)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp types.ProcessVideoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.JobID == "" {
		t.Fatalf("response = %+v", resp)
	}

	manager.Wait()

	w = do(t, r, http.MethodGet, "/api/jobs/"+resp.JobID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("job status = %d", w.Code)
	}
	var job jobs.Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.State != jobs.StateDone || job.Name != "Tabata" {
		t.Fatalf("job = %+v", job)
	}

	w = do(t, r, http.MethodGet, "/api/jobs", "")
	var list struct {
		Jobs []jobs.Job `json:"jobs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Jobs) != 1 {
		t.Fatalf("job list = %s (%v)", w.Body.String(), err)
	}

	if w := do(t, r, http.MethodGet, "/api/jobs/does-not-exist", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown job status = %d; want 404", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/logs", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Tabata") {
		t.Fatalf("logs = %s", w.Body.String())
	}
}

func TestRenderRejectsInvalid(t *testing.T) {
	manager := jobs.NewManager(10)
	r := NewRouter(manager, &fakeProcessor{})

	w := do(t, r, http.MethodPost, "/api/render", `{"kind": "countdown", "countdown": {"name": "", "minutes": 1}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if len(manager.List()) != 0 {
		t.Fatalf("invalid request must not create a job")
	}
}

func TestRenderFailureMarksJobFailed(t *testing.T) {
	manager := jobs.NewManager(10)
	r := NewRouter(manager, &fakeProcessor{renderErr: errors.New("ffmpeg failed")})

	w := do(t, r, http.MethodPost, "/api/render", `{"kind": "countdown", "countdown": {"name": "Tea", "minutes": 3}}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d", w.Code)
	}
	manager.Wait()

	list := manager.List()
	if len(list) != 1 || list[0].State != jobs.StateFailed || list[0].Error != "ffmpeg failed" {
		t.Fatalf("jobs = %+v", list)
	}
}
