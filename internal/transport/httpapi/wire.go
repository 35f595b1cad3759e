package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// The legacy envelope: every response is {"success": bool, "data": ...}.
// Successful searches carry either a plain product array or, when category
// matches ride along, an object with "products" and "categories".
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorData is the data payload of a failed request.
type errorData struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// objectData is the object-shaped success payload.
type objectData struct {
	Products   []search.ProductPayload  `json:"products"`
	Categories []search.CategoryPayload `json:"categories"`
}

// searchData picks the wire shape for a search response.
func searchData(resp *search.Response) any {
	if resp.Categories != nil {
		return objectData{
			Products:   resp.Products,
			Categories: resp.Categories,
		}
	}
	if resp.Products == nil {
		return []search.ProductPayload{}
	}
	return resp.Products
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Data: errorData{
		Message: message,
		Code:    code,
	}})
}
