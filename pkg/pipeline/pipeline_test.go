package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/easyops/medcontext-go/pkg/bundle"
	"github.com/easyops/medcontext-go/pkg/core/config"
	coreerrors "github.com/easyops/medcontext-go/pkg/core/errors"
	"github.com/easyops/medcontext-go/pkg/llm"
	"github.com/easyops/medcontext-go/pkg/source"
)

// fakeSource 返回固定邻居的知识源。
type fakeSource struct {
	name      string
	neighbors map[string][]string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, subject string) source.Result {
	return source.Success(f.name, f.neighbors[subject])
}

// fakeProvider 返回固定文本的 LLM 提供商。
type fakeProvider struct {
	lastRequest llm.Request
	reply       string
	err         error
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }
func (f *fakeProvider) Close() error  { return nil }

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.lastRequest = req
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.reply}, nil
}

func arxivStub(t *testing.T, entries int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom">`
		for i := 0; i < entries; i++ {
			body += `<entry><id>http://arxiv.org/abs/1</id><title>Paper</title><summary>Abstract.</summary><published>2024-01-01T00:00:00Z</published></entry>`
		}
		body += `</feed>`
		w.Write([]byte(body))
	}))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Context.MaxTokens = 200
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config, opts ...ServiceOption) *Service {
	t.Helper()

	opts = append([]ServiceOption{
		WithTokenizer(bundle.NewRuneTokenizer()),
	}, opts...)

	svc, err := NewService(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestGatherSubjectContext(t *testing.T) {
	arxiv := arxivStub(t, 2)
	defer arxiv.Close()

	svc := newTestService(t, testConfig(),
		WithSources(&fakeSource{
			name:      "fake",
			neighbors: map[string][]string{"Aspirin": {"Warfarin", "Ibuprofen"}},
		}),
		WithArxivClient(source.NewArxivClient(source.ArxivConfig{Endpoint: arxiv.URL})),
	)

	sections, err := svc.GatherSubjectContext(context.Background(), "Aspirin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Label != "Related Entities" {
		t.Errorf("first section label = %q", sections[0].Label)
	}
	if !strings.Contains(sections[0].Serialize(), "Warfarin") {
		t.Error("related entities section must list aggregated neighbors")
	}
	if sections[1].Label != "Articles" {
		t.Errorf("second section label = %q", sections[1].Label)
	}
}

func TestGatherSubjectContextLiteratureFailureAbsorbed(t *testing.T) {
	svc := newTestService(t, testConfig(),
		WithSources(&fakeSource{
			name:      "fake",
			neighbors: map[string][]string{"Aspirin": {"Warfarin"}},
		}),
		WithArxivClient(source.NewArxivClient(source.ArxivConfig{Endpoint: "http://127.0.0.1:1"})),
	)

	sections, err := svc.GatherSubjectContext(context.Background(), "Aspirin")
	if err != nil {
		t.Fatalf("literature failure must not abort gathering: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected only the entities section, got %d sections", len(sections))
	}
}

func TestGatherSubjectContextInvalidSubject(t *testing.T) {
	svc := newTestService(t, testConfig(), WithSources(&fakeSource{name: "fake"}))

	_, err := svc.GatherSubjectContext(context.Background(), "   ")
	if !errors.Is(err, coreerrors.ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject, got %v", err)
	}
}

func TestGatherInteractionContext(t *testing.T) {
	arxiv := arxivStub(t, 1)
	defer arxiv.Close()

	svc := newTestService(t, testConfig(),
		WithSources(&fakeSource{
			name: "fake",
			neighbors: map[string][]string{
				"Aspirin":  {"Warfarin", "Ibuprofen"},
				"Warfarin": {"Ibuprofen"},
			},
		}),
		WithArxivClient(source.NewArxivClient(source.ArxivConfig{Endpoint: arxiv.URL})),
	)

	sections, err := svc.GatherInteractionContext(context.Background(), "Aspirin", "Warfarin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	if sections[0].Label != "Interaction Report" {
		t.Errorf("first section label = %q", sections[0].Label)
	}
	report := sections[0].Serialize()
	if !strings.Contains(report, "direct relation found") {
		t.Errorf("report must state the direct relation: %q", report)
	}
	if !strings.Contains(report, "Ibuprofen") {
		t.Errorf("report must list common entities: %q", report)
	}
}

func TestAssembleContextHonorsBudget(t *testing.T) {
	cfg := testConfig()
	cfg.Context.MaxTokens = 50
	svc := newTestService(t, cfg, WithSources(&fakeSource{name: "fake"}))

	sections := []*bundle.Section{
		bundle.NewTextSection("a", strings.Repeat("x", 40), 1),
		bundle.NewTextSection("b", strings.Repeat("y", 40), 2),
	}

	assembled, err := svc.AssembleContext(context.Background(), sections)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assembled.TotalTokens() > 50 {
		t.Errorf("bundle exceeds budget: %d tokens", assembled.TotalTokens())
	}
}

func TestAdvise(t *testing.T) {
	provider := &fakeProvider{reply: "advice text"}
	svc := newTestService(t, testConfig(),
		WithSources(&fakeSource{name: "fake"}),
		WithProvider(provider),
	)

	assembled, err := svc.AssembleContext(context.Background(), []*bundle.Section{
		bundle.NewTextSection("Summary", "some context", 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := svc.Advise(context.Background(), "analyze the context", assembled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "advice text" {
		t.Errorf("reply = %q", reply)
	}

	if len(provider.lastRequest.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(provider.lastRequest.Messages))
	}
	if provider.lastRequest.Messages[0].Role != llm.RoleSystem {
		t.Error("instructions must be sent as the system message")
	}
	if !strings.Contains(provider.lastRequest.Messages[1].Content, "[Summary]") {
		t.Error("user message must carry the formatted bundle")
	}
}

func TestAdviseWithoutProvider(t *testing.T) {
	svc := newTestService(t, testConfig(), WithSources(&fakeSource{name: "fake"}))

	assembled, err := svc.AssembleContext(context.Background(), []*bundle.Section{
		bundle.NewTextSection("Summary", "text", 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Advise(context.Background(), "instructions", assembled)
	if !errors.Is(err, coreerrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestAdvisePropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: coreerrors.ErrRateLimited}
	svc := newTestService(t, testConfig(),
		WithSources(&fakeSource{name: "fake"}),
		WithProvider(provider),
	)

	assembled, err := svc.AssembleContext(context.Background(), []*bundle.Section{
		bundle.NewTextSection("Summary", "text", 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Advise(context.Background(), "instructions", assembled)
	if !errors.Is(err, coreerrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}
