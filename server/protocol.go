package server

// Request is one client request line. ID is echoed back in the response;
// a blank ID gets a server-assigned one. Timeout is an optional number of
// seconds the client is willing to wait, as a string to allow "".
type Request struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timeout   string `json:"timeout,omitempty"`
	Query     string `json:"query,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	PageTitle string `json:"pageTitle,omitempty"`
}

// Request types understood by the server.
const (
	TypeSimpleSearch = "simpleSearch"
	TypeGetPage      = "getPage"
	TypeZeitgeist    = "zeitgeist"
	TypeTrending     = "trending"
	TypePeakLoad30s  = "peakLoad30s"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// timedOutMessage is the response payload for requests that exceeded
// their own timeout.
const timedOutMessage = "Operation timed out"

// Response is one server response line. Response holds the operation
// result on success and a human-readable reason on failure.
type Response struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Response any    `json:"response"`
}

func success(id string, payload any) Response {
	return Response{ID: id, Status: StatusSuccess, Response: payload}
}

func failed(id string, reason string) Response {
	return Response{ID: id, Status: StatusFailed, Response: reason}
}
