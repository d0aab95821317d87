package mcpclient_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercompute/loom/pkg/config"
	"github.com/papercompute/loom/pkg/mcpclient"
)

func TestMCPClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MCP Client Suite")
}

var _ = Describe("Manager", func() {
	It("lists an added server as disconnected", func() {
		m := mcpclient.NewManager()
		m.Add("filesystem", "http://localhost:9000")

		list := m.List()
		Expect(list).To(HaveLen(1))
		Expect(list[0].Name).To(Equal("filesystem"))
		Expect(list[0].Status).To(Equal(mcpclient.StatusDisconnected))
	})

	It("removes a configured server", func() {
		m := mcpclient.NewManager()
		m.Add("filesystem", "http://localhost:9000")

		Expect(m.Remove("filesystem")).To(Succeed())
		Expect(m.List()).To(BeEmpty())
	})

	It("errors for an unknown server", func() {
		m := mcpclient.NewManager()
		_, err := m.Status("missing")
		Expect(err).To(HaveOccurred())
	})

	It("round-trips through Settings", func() {
		m := mcpclient.NewManager()
		m.Add("filesystem", "http://localhost:9000")

		s := config.NewDefaultConfig()
		m.SyncToSettings(s)
		Expect(s.MCPServers["filesystem"].URL).To(Equal("http://localhost:9000"))

		loaded := mcpclient.LoadFromSettings(s)
		info, err := loaded.Status("filesystem")
		Expect(err).NotTo(HaveOccurred())
		Expect(info.URL).To(Equal("http://localhost:9000"))
	})
})
