package handler

// errorBody documents the error envelope rendered by the gateway's error handler.
type errorBody struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}
