package openapi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/driftwoodlabs/apiscout/pkg/openapi"
)

var _ = Describe("BuildRecords", func() {
	Context("with a spec containing no paths", func() {
		It("produces zero records", func() {
			spec, err := openapi.Parse([]byte(`{"info": {"title": "Empty", "version": "0.1.0"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(openapi.BuildRecords(spec)).To(BeEmpty())
		})
	})

	Context("with a fully described operation", func() {
		var record openapi.Record

		BeforeEach(func() {
			spec, err := openapi.Parse([]byte(`{
				"info": {"title": "Widget API", "version": "1.0.0"},
				"paths": {
					"/widgets": {
						"get": {
							"operationId": "list_widgets",
							"summary": "List widgets",
							"description": "Returns all widgets.",
							"tags": ["widgets", "catalog"],
							"parameters": [
								{"name": "limit", "in": "query", "description": "Max results"},
								{"name": "tenant", "in": "header", "required": true, "description": "Tenant ID"}
							],
							"responses": {
								"200": {"description": "OK"},
								"400": {"description": "Bad request"}
							}
						}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			records := openapi.BuildRecords(spec)
			Expect(records).To(HaveLen(1))
			record = records[0]
		})

		It("renders the exact document text", func() {
			Expect(record.Content).To(Equal(
				"API Endpoint: GET /widgets\n" +
					"Operation ID: list_widgets\n" +
					"\n" +
					"Summary: List widgets\n" +
					"Description: Returns all widgets.\n" +
					"\n" +
					"Parameters:\n" +
					"  - limit (query, optional): Max results\n" +
					"  - tenant (header, required): Tenant ID\n" +
					"\n" +
					"Responses:\n" +
					"  200: OK\n" +
					"  400: Bad request",
			))
		})

		It("carries the full metadata set", func() {
			Expect(record.Metadata["path"]).To(Equal("/widgets"))
			Expect(record.Metadata["method"]).To(Equal("GET"))
			Expect(record.Metadata["operation_id"]).To(Equal("list_widgets"))
			Expect(record.Metadata["api_title"]).To(Equal("Widget API"))
			Expect(record.Metadata["api_version"]).To(Equal("1.0.0"))
			Expect(record.Metadata["tags"]).To(Equal([]string{"widgets", "catalog"}))
			Expect(record.Metadata["source"]).To(Equal("openapi_spec"))
		})
	})

	Context("with a minimal operation", func() {
		It("omits the optional blocks entirely", func() {
			spec, err := openapi.Parse([]byte(`{
				"info": {"title": "Widget API", "version": "1.0.0"},
				"paths": {"/widgets": {"get": {}}}
			}`))
			Expect(err).NotTo(HaveOccurred())

			records := openapi.BuildRecords(spec)
			Expect(records).To(HaveLen(1))
			Expect(records[0].Content).To(Equal(
				"API Endpoint: GET /widgets\n" +
					"Operation ID: get_/widgets\n",
			))
		})
	})

	Context("with a request body", func() {
		It("renders the description and content types", func() {
			spec, err := openapi.Parse([]byte(`{
				"info": {"title": "Widget API", "version": "1.0.0"},
				"paths": {
					"/widgets": {
						"post": {
							"operationId": "create_widget",
							"requestBody": {
								"description": "Widget payload",
								"content": {"application/json": {}, "application/xml": {}}
							}
						}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			records := openapi.BuildRecords(spec)
			Expect(records).To(HaveLen(1))
			Expect(records[0].Content).To(Equal(
				"API Endpoint: POST /widgets\n" +
					"Operation ID: create_widget\n" +
					"\n" +
					"\n" +
					"Request Body:\n" +
					"  Widget payload\n" +
					"  Content types: application/json, application/xml",
			))
		})

		It("still renders the description line when the description is empty", func() {
			spec, err := openapi.Parse([]byte(`{
				"paths": {"/widgets": {"post": {"requestBody": {}}}}
			}`))
			Expect(err).NotTo(HaveOccurred())

			records := openapi.BuildRecords(spec)
			Expect(records[0].Content).To(HaveSuffix("Request Body:\n  "))
		})
	})

	Context("with several operations across paths", func() {
		It("emits one record per (path, method) pair in order", func() {
			spec, err := openapi.Parse([]byte(`{
				"info": {"title": "Widget API", "version": "1.0.0"},
				"paths": {
					"/widgets": {
						"post": {"operationId": "create"},
						"get": {"operationId": "list"}
					},
					"/widgets/{id}": {
						"get": {"operationId": "read"}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			records := openapi.BuildRecords(spec)
			Expect(records).To(HaveLen(3))
			Expect(records[0].Metadata["operation_id"]).To(Equal("list"))
			Expect(records[1].Metadata["operation_id"]).To(Equal("create"))
			Expect(records[2].Metadata["operation_id"]).To(Equal("read"))
		})
	})
})

var _ = Describe("DocumentID", func() {
	build := func(doc string) []openapi.Record {
		spec, err := openapi.Parse([]byte(doc))
		Expect(err).NotTo(HaveOccurred())
		return openapi.BuildRecords(spec)
	}

	It("is deterministic across runs", func() {
		doc := `{"info": {"title": "Widget API", "version": "1.0.0"}, "paths": {"/widgets": {"get": {}}}}`
		first := build(doc)[0].DocumentID()
		second := build(doc)[0].DocumentID()
		Expect(first).To(Equal(second))
		Expect(first).To(HaveLen(64))
	})

	It("differs between methods on the same path", func() {
		records := build(`{"info": {"title": "Widget API", "version": "1.0.0"}, "paths": {"/widgets": {"get": {}, "post": {}}}}`)
		Expect(records).To(HaveLen(2))
		Expect(records[0].DocumentID()).NotTo(Equal(records[1].DocumentID()))
	})

	It("differs between API versions", func() {
		v1 := build(`{"info": {"title": "Widget API", "version": "1.0.0"}, "paths": {"/widgets": {"get": {}}}}`)
		v2 := build(`{"info": {"title": "Widget API", "version": "2.0.0"}, "paths": {"/widgets": {"get": {}}}}`)
		Expect(v1[0].DocumentID()).NotTo(Equal(v2[0].DocumentID()))
	})
})
