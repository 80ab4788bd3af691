// Package server exposes the mediator over a line-delimited JSON TCP
// protocol.
//
// Each client connection carries a sequence of newline-terminated JSON
// requests and receives one JSON response line per request:
//
//	{"id":"1","type":"simpleSearch","query":"Canada","limit":10}
//	{"id":"1","status":"success","response":["Canada","Canada Day"]}
//
// Supported request types are simpleSearch, getPage, zeitgeist, trending
// and peakLoad30s. A request may carry an optional timeout in seconds;
// when the handler does not finish in time the response is
// {"status":"failed","response":"Operation timed out"}. Malformed or
// unknown requests produce a failed response and leave the connection
// open.
//
// The server caps the number of simultaneously served connections,
// shuts down gracefully on context cancellation or interrupt/TERM and is
// configured through functional options or an env-tagged Config:
//
//	srv := server.New(
//		server.WithAddr(":9595"),
//		server.WithMaxClients(64),
//		server.WithLogger(log),
//	)
//	if err := srv.Run(ctx, mediator); err != nil {
//		// errors.Is(err, server.ErrStart)
//	}
//
// Run wraps listen errors with ErrStart and shutdown errors with
// ErrShutdown so they can be inspected with errors.Is.
package server
