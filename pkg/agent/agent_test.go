package agent_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.uber.org/zap"

	"github.com/papercompute/loom/pkg/agent"
	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/llm"
	"github.com/papercompute/loom/pkg/provider"
	"github.com/papercompute/loom/pkg/router"
)

func TestAgent(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Agent Suite")
}

// stubProvider is a minimal provider.Provider used to exercise the
// intent-extraction adapter without a network call.
type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Type() provider.Type          { return provider.TypeOllama }
func (s *stubProvider) BaseURL() string               { return "http://localhost:11434" }
func (s *stubProvider) Capabilities() provider.Capabilities { return provider.Capabilities{Streaming: true} }
func (s *stubProvider) Detect(ctx context.Context) bool { return true }
func (s *stubProvider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return nil, nil
}
func (s *stubProvider) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Message: llm.NewTextMessage(llm.RoleAssistant, s.response)}, nil
}
func (s *stubProvider) StreamCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	ch := make(chan llm.StreamEvent)
	close(ch)
	return ch, nil
}

var _ = Describe("Agent", func() {
	var (
		settings *config.Settings
		cfger    *config.Configer
		log      *zap.Logger
	)

	BeforeEach(func() {
		settings = config.NewDefaultConfig()
		log = zap.NewNop()
	})

	It("wires a Router backed by the provider's ChatCompletion", func() {
		p := &stubProvider{response: `{"action_type":"chat","confidence":0.9}`}
		a := agent.New(p, settings, cfger, ".", log)

		Expect(a.Router).NotTo(BeNil())
		Expect(a.Context).NotTo(BeNil())
		Expect(a.Commands).NotTo(BeNil())
		Expect(a.MCP).NotTo(BeNil())

		decision, err := a.Router.Route(context.Background(), "please fix the bug", router.ModeChat, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision).NotTo(BeNil())
	})

	It("falls back to passthrough chat when the provider errors", func() {
		p := &stubProvider{err: context.DeadlineExceeded}
		a := agent.New(p, settings, cfger, ".", log)

		decision, err := a.Router.Route(context.Background(), "please fix the bug", router.ModeChat, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Type).To(Equal(router.RoutePassthroughChat))
	})

	It("builds an ExecutionContext exposing its collaborators", func() {
		p := &stubProvider{response: "{}"}
		a := agent.New(p, settings, cfger, ".", log)

		ec := a.ExecutionContext()
		Expect(ec.Provider).To(Equal(provider.Provider(p)))
		Expect(ec.Router).To(Equal(a.Router))
		Expect(ec.Settings).To(Equal(settings))
	})

	It("selects a provider from settings protocol/host/port", func() {
		settings.Protocol = "ollama"
		settings.LLMHost = "localhost"
		settings.LLMPort = 11434

		p, err := agent.SelectProvider(settings)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Type()).To(Equal(provider.TypeOllama))
		Expect(p.BaseURL()).To(Equal("http://localhost:11434"))
	})
})
