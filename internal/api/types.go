package api

// ErrorResponse is the JSON body returned on API failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
