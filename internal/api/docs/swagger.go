package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// EmbeddingRequest represents the embedding extraction request body
type EmbeddingRequest struct {
	ImageData string `json:"image_data" example:"data:image/jpeg;base64,/9j/4AAQ..."`
}

// EmbeddingResponse represents a successful embedding extraction
type EmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
	Dim       int       `json:"dim" example:"128"`
}

// VerifyRequest represents the verification request body
type VerifyRequest struct {
	EmbeddingA []float64 `json:"embedding_a"`
	EmbeddingB []float64 `json:"embedding_b"`
	Threshold  float64   `json:"threshold" example:"0.9"`
}

// VerifyResponse represents the verification outcome
type VerifyResponse struct {
	Match      bool    `json:"match" example:"true"`
	Confidence float64 `json:"confidence" example:"0.97"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error  string `json:"error" example:"Invalid input"`
	Detail string `json:"detail" example:"image_data is not valid base64"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"frbox"`
	Version string `json:"version" example:"1.0.0"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "FRbox API",
		Version:     "v1.0.0",
		Description: "Stateless face recognition microservice for embedding extraction and verification",
		Host:        "localhost:3000",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /embedding - Extract face embedding
		endpoint.New(
			endpoint.POST,
			"/embedding",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Extract face embedding from image"),
			endpoint.WithDescription("Accepts a base64-encoded image (optionally data-URL-prefixed), detects exactly one face, and returns the face embedding vector."),
			endpoint.WithBody(EmbeddingRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmbeddingResponse{}, "200", "Embedding extracted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: "Invalid input"}, "400", "Bad Request"),
				response.New(ErrorResponse{Error: "Unauthorized"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Error: "Forbidden"}, "403", "Forbidden"),
				response.New(ErrorResponse{Error: "Request too large"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Error: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Error: "Internal error"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// POST /verify - Verify two embeddings
		endpoint.New(
			endpoint.POST,
			"/verify",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Verify whether two face embeddings match"),
			endpoint.WithDescription("Compares two face embeddings using cosine similarity and returns whether they match at the given threshold (default 0.90)."),
			endpoint.WithBody(VerifyRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(VerifyResponse{}, "200", "Verification completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: "Dimension mismatch"}, "400", "Bad Request"),
				response.New(ErrorResponse{Error: "Unauthorized"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Error: "Forbidden"}, "403", "Forbidden"),
				response.New(ErrorResponse{Error: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Error: "Internal error"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"ApiKeyAuth": {}}}),
		),

		// GET /health - Health check
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("System"),
			endpoint.WithSummary("Health check"),
			endpoint.WithDescription("Returns service status and version. Exempt from authentication and rate limiting."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is healthy"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
