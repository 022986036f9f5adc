// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/shopadmin/pkg/bind"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/response"
)

// NewSchema builds a read-only schema from its root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes queries sent as a JSON POST body or as ?query= on GET.
// Query errors are reported in the result's errors list with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		switch r.Method {
		case http.MethodGet:
			req.Query = r.URL.Query().Get("query")
			req.OperationName = r.URL.Query().Get("operationName")
		case http.MethodPost:
			if err := bind.DecodeJSON(r, &req); err != nil {
				response.BadRequest(w, "Invalid request body")
				return
			}
		default:
			w.Header().Set("Allow", "GET, POST")
			response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}

		if req.Query == "" {
			response.BadRequest(w, "Query is required")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql errors", "errors", result.Errors)
		}
		response.JSON(w, http.StatusOK, result)
	}
}
