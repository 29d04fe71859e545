package backend

// QueryRequest is the body of POST /query/.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the body returned by POST /query/. Answer is a pointer
// so a missing field can be told apart from an empty answer.
type QueryResponse struct {
	Answer  *string  `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}
