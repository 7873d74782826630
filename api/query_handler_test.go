package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apiquery "github.com/driftwoodlabs/apiscout/api/query"
	"github.com/driftwoodlabs/apiscout/pkg/logger"
	testutils "github.com/driftwoodlabs/apiscout/pkg/utils/test"
	"github.com/driftwoodlabs/apiscout/pkg/vector"
)

func queryRequest(body string) *http.Request {
	req, err := http.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")
	return req
}

func resultDoc(id, content string) vector.QueryResult {
	return vector.QueryResult{
		Document: vector.Document{
			ID:      id,
			Content: content,
			Metadata: map[string]any{
				"path":   "/widgets",
				"method": "GET",
				"source": "openapi_spec",
			},
		},
		Score: 0.9,
	}
}

var _ = Describe("handleQueryEndpoint", func() {
	var (
		server       *Server
		vectorDriver *testutils.MockVectorDriver
		embedder     *testutils.MockEmbedder
	)

	BeforeEach(func() {
		vectorDriver = testutils.NewMockVectorDriver()
		embedder = testutils.NewMockEmbedder()

		var err error
		server, err = NewServer(Config{
			ListenAddr:      ":0",
			VectorStorePath: "/data/vector_store",
			VectorDriver:    vectorDriver,
			Embedder:        embedder,
			Logger:          logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("request validation", func() {
		It("returns 422 for a missing query", func() {
			resp, err := server.app.Test(queryRequest(`{}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("query must be a non-empty string"))
		})

		It("returns 422 for a whitespace-only query", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "   "}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
		})

		It("returns 422 for an unparseable body", func() {
			resp, err := server.app.Test(queryRequest(`{"query": `))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
		})

		It("returns 422 when k is zero", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "widgets", "k": 0}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("k must be between 1 and 20"))
		})

		It("returns 422 when k exceeds the maximum", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "widgets", "k": 21}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
		})

		It("accepts the boundary values", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "widgets", "k": 1}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp, err = server.app.Test(queryRequest(`{"query": "widgets", "k": 20}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		})
	})

	Context("when the vector store is not loaded", func() {
		It("returns 503", func() {
			bare, err := NewServer(Config{
				ListenAddr: ":0",
				Logger:     logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			resp, err := bare.app.Test(queryRequest(`{"query": "widgets"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("run ingestion first"))
		})
	})

	Context("when the search fails", func() {
		It("returns 500", func() {
			vectorDriver.FailQuery = true

			resp, err := server.app.Test(queryRequest(`{"query": "widgets"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
		})
	})

	Context("with stored documents", func() {
		BeforeEach(func() {
			vectorDriver.Results = []vector.QueryResult{
				resultDoc("a", "API Endpoint: GET /widgets"),
				resultDoc("b", "API Endpoint: POST /widgets"),
				resultDoc("c", "API Endpoint: GET /widgets/{id}"),
				resultDoc("d", "API Endpoint: DELETE /widgets/{id}"),
				resultDoc("e", "API Endpoint: PATCH /widgets/{id}"),
			}
		})

		It("defaults k to 3", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "how do I list widgets"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var output apiquery.Output
			Expect(json.NewDecoder(resp.Body).Decode(&output)).To(Succeed())
			Expect(output.Count).To(Equal(3))
			Expect(output.Results).To(HaveLen(3))
		})

		It("echoes the query and honors an explicit k", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "widgets", "k": 2}`))
			Expect(err).NotTo(HaveOccurred())

			var output apiquery.Output
			Expect(json.NewDecoder(resp.Body).Decode(&output)).To(Succeed())
			Expect(output.Query).To(Equal("widgets"))
			Expect(output.Count).To(Equal(2))
		})

		It("exposes content, metadata and relevance score per result", func() {
			resp, err := server.app.Test(queryRequest(`{"query": "widgets", "k": 1}`))
			Expect(err).NotTo(HaveOccurred())

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"relevance_score":0.9`))
			Expect(string(body)).To(ContainSubstring(`"method":"GET"`))
			Expect(string(body)).To(ContainSubstring("API Endpoint: GET /widgets"))
		})
	})
})
