package openapi_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/driftwoodlabs/apiscout/pkg/openapi"
)

var _ = Describe("Parse", func() {
	Context("with malformed JSON", func() {
		It("returns an error", func() {
			_, err := openapi.Parse([]byte(`{"info": {`))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing spec"))
		})
	})

	Context("with a document missing the paths map", func() {
		It("parses to a spec with zero paths", func() {
			spec, err := openapi.Parse([]byte(`{"info": {"title": "Empty API", "version": "1.0.0"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(spec.Info.Title).To(Equal("Empty API"))
			Expect(spec.Info.Version).To(Equal("1.0.0"))
			Expect(spec.Paths).To(BeEmpty())
		})
	})

	Context("with a document missing the info block", func() {
		It("defaults title and version to empty strings", func() {
			spec, err := openapi.Parse([]byte(`{"paths": {}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(spec.Info.Title).To(Equal(""))
			Expect(spec.Info.Version).To(Equal(""))
		})
	})

	Context("with multiple methods on one path", func() {
		spec := []byte(`{
			"info": {"title": "Widget API", "version": "2.0.0"},
			"paths": {
				"/widgets": {
					"delete": {"operationId": "delete_widgets"},
					"get": {"operationId": "list_widgets"},
					"post": {"operationId": "create_widget"}
				}
			}
		}`)

		It("emits operations in fixed method order regardless of source order", func() {
			parsed, err := openapi.Parse(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths).To(HaveLen(1))

			ops := parsed.Paths[0].Operations
			Expect(ops).To(HaveLen(3))
			Expect(ops[0].Method).To(Equal("get"))
			Expect(ops[1].Method).To(Equal("post"))
			Expect(ops[2].Method).To(Equal("delete"))
		})
	})

	Context("with multiple paths", func() {
		spec := []byte(`{
			"info": {"title": "Widget API", "version": "2.0.0"},
			"paths": {
				"/zebras": {"get": {}},
				"/aardvarks": {"get": {}}
			}
		}`)

		It("preserves the source document's path order", func() {
			parsed, err := openapi.Parse(spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths).To(HaveLen(2))
			Expect(parsed.Paths[0].Path).To(Equal("/zebras"))
			Expect(parsed.Paths[1].Path).To(Equal("/aardvarks"))
		})
	})

	Context("with non-operation keys in a path item", func() {
		It("ignores keys outside the known method list", func() {
			parsed, err := openapi.Parse([]byte(`{
				"paths": {
					"/widgets": {
						"summary": "widget collection",
						"x-internal": true,
						"get": {}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths[0].Operations).To(HaveLen(1))
			Expect(parsed.Paths[0].Operations[0].Method).To(Equal("get"))
		})
	})

	Context("operation field defaults", func() {
		It("derives operationId from method and path when absent", func() {
			parsed, err := openapi.Parse([]byte(`{"paths": {"/widgets": {"get": {}}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths[0].Operations[0].OperationID).To(Equal("get_/widgets"))
		})

		It("keeps the source operationId when present", func() {
			parsed, err := openapi.Parse([]byte(`{"paths": {"/widgets": {"get": {"operationId": "listWidgets"}}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths[0].Operations[0].OperationID).To(Equal("listWidgets"))
		})

		It("defaults tags to an empty slice, never nil", func() {
			parsed, err := openapi.Parse([]byte(`{"paths": {"/widgets": {"get": {}}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths[0].Operations[0].Tags).NotTo(BeNil())
			Expect(parsed.Paths[0].Operations[0].Tags).To(BeEmpty())
		})

		It("leaves RequestBody nil when the source has no requestBody key", func() {
			parsed, err := openapi.Parse([]byte(`{"paths": {"/widgets": {"get": {}}}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Paths[0].Operations[0].RequestBody).To(BeNil())
		})
	})

	Context("request body parsing", func() {
		It("preserves content type order from the source document", func() {
			parsed, err := openapi.Parse([]byte(`{
				"paths": {
					"/widgets": {
						"post": {
							"requestBody": {
								"description": "Widget to create",
								"required": true,
								"content": {
									"application/xml": {},
									"application/json": {}
								}
							}
						}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			body := parsed.Paths[0].Operations[0].RequestBody
			Expect(body).NotTo(BeNil())
			Expect(body.Description).To(Equal("Widget to create"))
			Expect(body.Required).To(BeTrue())
			Expect(body.ContentTypes).To(Equal([]string{"application/xml", "application/json"}))
		})

		It("parses a requestBody with no content map", func() {
			parsed, err := openapi.Parse([]byte(`{
				"paths": {"/widgets": {"post": {"requestBody": {"description": "raw"}}}}
			}`))
			Expect(err).NotTo(HaveOccurred())

			body := parsed.Paths[0].Operations[0].RequestBody
			Expect(body).NotTo(BeNil())
			Expect(body.ContentTypes).To(BeEmpty())
		})
	})

	Context("response parsing", func() {
		It("preserves status code order from the source document", func() {
			parsed, err := openapi.Parse([]byte(`{
				"paths": {
					"/widgets": {
						"get": {
							"responses": {
								"404": {"description": "Not found"},
								"200": {"description": "OK"},
								"500": {"description": "Server error"}
							}
						}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			responses := parsed.Paths[0].Operations[0].Responses
			Expect(responses).To(HaveLen(3))
			Expect(responses[0].Code).To(Equal("404"))
			Expect(responses[1].Code).To(Equal("200"))
			Expect(responses[2].Code).To(Equal("500"))
		})
	})

	Context("parameter parsing", func() {
		It("reads name, location, required and description", func() {
			parsed, err := openapi.Parse([]byte(`{
				"paths": {
					"/widgets/{id}": {
						"get": {
							"parameters": [
								{"name": "id", "in": "path", "required": true, "description": "Widget ID"},
								{"name": "verbose", "in": "query", "description": "Include details"}
							]
						}
					}
				}
			}`))
			Expect(err).NotTo(HaveOccurred())

			params := parsed.Paths[0].Operations[0].Parameters
			Expect(params).To(HaveLen(2))
			Expect(params[0].Name).To(Equal("id"))
			Expect(params[0].In).To(Equal("path"))
			Expect(params[0].Required).To(BeTrue())
			Expect(params[1].Name).To(Equal("verbose"))
			Expect(params[1].Required).To(BeFalse())
		})
	})
})

var _ = Describe("ParseFile", func() {
	It("parses a spec from disk", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "widgets.json")
		err := os.WriteFile(path, []byte(`{"info": {"title": "Widget API", "version": "1.0.0"}, "paths": {}}`), 0o644)
		Expect(err).NotTo(HaveOccurred())

		spec, err := openapi.ParseFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.Info.Title).To(Equal("Widget API"))
	})

	It("returns an error for a missing file", func() {
		_, err := openapi.ParseFile("/nonexistent/spec.json")
		Expect(err).To(HaveOccurred())
	})
})
