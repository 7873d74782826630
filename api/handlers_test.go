package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/driftwoodlabs/apiscout/pkg/logger"
	testutils "github.com/driftwoodlabs/apiscout/pkg/utils/test"
)

var _ = Describe("handleRoot", func() {
	It("describes the service and its endpoints", func() {
		server, err := NewServer(Config{
			ListenAddr: ":0",
			Logger:     logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		req, err := http.NewRequest(http.MethodGet, "/", nil)
		Expect(err).NotTo(HaveOccurred())

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var body RootResponse
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.Service).To(Equal("apiscout"))
		Expect(body.Endpoints).To(HaveKey("POST /query"))
	})
})

var _ = Describe("handleHealth", func() {
	Context("when the vector store is loaded", func() {
		It("reports healthy with the store path", func() {
			server, err := NewServer(Config{
				ListenAddr:      ":0",
				VectorStorePath: "/data/vector_store",
				VectorDriver:    testutils.NewMockVectorDriver(),
				Embedder:        testutils.NewMockEmbedder(),
				Logger:          logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var health HealthResponse
			Expect(json.NewDecoder(resp.Body).Decode(&health)).To(Succeed())
			Expect(health.Status).To(Equal("healthy"))
			Expect(health.VectorStoreLoaded).To(BeTrue())
			Expect(health.VectorStorePath).To(Equal("/data/vector_store"))
		})
	})

	Context("when no vector store is configured", func() {
		It("still reports healthy but with the store unloaded", func() {
			server, err := NewServer(Config{
				ListenAddr:      ":0",
				VectorStorePath: "/data/vector_store",
				Logger:          logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodGet, "/health", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"vector_store_loaded":false`))
		})
	})
})
