package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ballmaster/internal/adapters/http/api"
	"github.com/okian/ballmaster/internal/adapters/repository"
	service "github.com/okian/ballmaster/internal/app"
	"github.com/okian/ballmaster/internal/domain/model"
)

// mockDeps implements api.Dependencies with canned values.
type mockDeps struct {
	upload    api.Upload
	uploadErr error
	top       []api.Entry
	topErr    error
	export    repository.Export
	videos    []api.VideoInfo

	lastFilename string
	lastLimit    int
	calls        int
}

func (m *mockDeps) ProcessUpload(ctx context.Context, filename string, r io.Reader) (api.Upload, error) {
	m.lastFilename = filename
	io.Copy(io.Discard, r)
	if m.uploadErr != nil {
		return api.Upload{}, m.uploadErr
	}
	return m.upload, nil
}

func (m *mockDeps) TopN(ctx context.Context, n int) ([]api.Entry, error) {
	m.lastLimit = n
	m.calls++
	if m.topErr != nil {
		return nil, m.topErr
	}
	return m.top, nil
}

func (m *mockDeps) Export(ctx context.Context) (repository.Export, error) {
	return m.export, nil
}

func (m *mockDeps) Videos(ctx context.Context) ([]api.VideoInfo, error) {
	return m.videos, nil
}

func (m *mockDeps) MaxResults() int { return 30 }

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *mockDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

// postVideo issues a multipart upload with the given field name.
func postVideo(t *testing.T, url, field, filename string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	So(err, ShouldBeNil)
	fw.Write([]byte("fake video bytes"))
	So(mw.Close(), ShouldBeNil)

	resp, err := http.Post(url+"/upload", mw.FormDataContentType(), &buf)
	So(err, ShouldBeNil)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
	return out
}

func TestUploadEndpoint(t *testing.T) {
	Convey("Given the API over a working service", t, func() {
		deps := &mockDeps{
			upload: api.Upload{
				Result: model.AnalysisResult{TotalKicks: 12, TotalSeries: 2, Summary: "12 kicks across 2 series", FPS: 30, Duration: 14.2},
				Entry:  api.Entry{VideoName: "20260830_101500_ab12cd34_clip.mp4", Score: 321.5, BestSeriesKicks: 7, BestSeriesDuration: 9.1},
				Ranked: true,
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("A multipart upload returns the analysis envelope", func() {
			resp := postVideo(t, srv.URL, "video", "clip.mp4")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			env := decodeEnvelope(t, resp)
			So(env["success"], ShouldBeTrue)
			So(env["message"], ShouldEqual, "video analyzed and ranked")
			data := env["data"].(map[string]any)
			So(data["total_kicks"], ShouldEqual, 12)
			So(data["score"], ShouldEqual, 321.5)
			So(data["ranked"], ShouldBeTrue)
			So(deps.lastFilename, ShouldEqual, "clip.mp4")

			ts, err := time.Parse(time.RFC3339, env["timestamp"].(string))
			So(err, ShouldBeNil)
			So(ts.IsZero(), ShouldBeFalse)
		})

		Convey("A missing form field is a bad request", func() {
			resp := postVideo(t, srv.URL, "file", "clip.mp4")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			env := decodeEnvelope(t, resp)
			So(env["success"], ShouldBeFalse)
			So(env["error"], ShouldNotBeEmpty)
		})

		Convey("GET on /upload is not found", func() {
			resp, err := http.Get(srv.URL + "/upload")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given service failures, statuses map by cause", t, func() {
		cases := []struct {
			err    error
			status int
		}{
			{service.ErrBusy, http.StatusTooManyRequests},
			{service.ErrDuplicate, http.StatusConflict},
			{service.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
			{service.ErrTooLarge, http.StatusRequestEntityTooLarge},
			{io.ErrUnexpectedEOF, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			deps := &mockDeps{uploadErr: tc.err}
			srv := newTestServer(deps)

			resp := postVideo(t, srv.URL, "video", "clip.mp4")
			So(resp.StatusCode, ShouldEqual, tc.status)
			resp.Body.Close()
			srv.Close()
		}
	})
}

func TestResultsEndpoint(t *testing.T) {
	Convey("Given a board with two entries", t, func() {
		deps := &mockDeps{
			top: []api.Entry{
				{VideoName: "a.mp4", Score: 200},
				{VideoName: "b.mp4", Score: 100},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("The default request returns the whole board", func() {
			resp, err := http.Get(srv.URL + "/results")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			env := decodeEnvelope(t, resp)
			data := env["data"].(map[string]any)
			So(data["count"], ShouldEqual, 2)
			So(deps.lastLimit, ShouldEqual, 0)
		})

		Convey("An explicit limit is forwarded", func() {
			resp, err := http.Get(srv.URL + "/results?limit=5")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(deps.lastLimit, ShouldEqual, 5)
		})

		Convey("An explicit zero limit is a bad request", func() {
			resp, err := http.Get(srv.URL + "/results?limit=0")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			env := decodeEnvelope(t, resp)
			So(env["error"], ShouldContainSubstring, "between 1 and 30")
			// The store is never consulted for a rejected limit.
			So(deps.lastLimit, ShouldEqual, 0)
			So(deps.calls, ShouldEqual, 0)
		})

		Convey("A non-numeric limit is a bad request", func() {
			resp, err := http.Get(srv.URL + "/results?limit=abc")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An out-of-range limit maps to a bad request", func() {
			deps.topErr = repository.ErrInvalidLimit
			resp, err := http.Get(srv.URL + "/results?limit=31")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			env := decodeEnvelope(t, resp)
			So(env["error"], ShouldContainSubstring, "between 1 and 30")
		})
	})
}

func TestExportEndpoint(t *testing.T) {
	Convey("Given a board export", t, func() {
		deps := &mockDeps{
			export: repository.Export{
				MaxResults: 30,
				TotalSaved: 1,
				Results:    []api.Entry{{VideoName: "a.mp4", Score: 10}},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("The download carries the raw board document", func() {
			resp, err := http.Get(srv.URL + "/export")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Disposition"), ShouldContainSubstring, "top_results.json")

			var doc repository.Export
			So(json.NewDecoder(resp.Body).Decode(&doc), ShouldBeNil)
			So(doc.TotalSaved, ShouldEqual, 1)
			So(doc.Results, ShouldHaveLength, 1)
		})
	})
}

func TestVideosEndpoint(t *testing.T) {
	Convey("Given two retained videos", t, func() {
		deps := &mockDeps{
			videos: []api.VideoInfo{
				{Name: "new.mp4", Size: 2048},
				{Name: "old.mp4", Size: 1024},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("The listing is wrapped in the envelope", func() {
			resp, err := http.Get(srv.URL + "/videos")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			env := decodeEnvelope(t, resp)
			data := env["data"].(map[string]any)
			So(data["count"], ShouldEqual, 2)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API", t, func() {
		srv := newTestServer(&mockDeps{})
		defer srv.Close()

		Convey("/health reports healthy", func() {
			resp, err := http.Get(srv.URL + "/health")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			env := decodeEnvelope(t, resp)
			So(env["success"], ShouldBeTrue)
		})

		Convey("/healthz serves Prometheus exposition", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, "ballmaster_")
		})

		Convey("/stats wraps the provider output", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			env := decodeEnvelope(t, resp)
			data := env["data"].(map[string]any)
			So(data["started"], ShouldBeTrue)
		})
	})
}
