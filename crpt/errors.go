/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"fmt"
)

// SerializationError is returned by Client.CreateDocument
// when the document cannot be converted to the wire format.
// The transport is not invoked in this case.
type SerializationError struct {
	Inner error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize document: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *SerializationError) Unwrap() error {
	return e.Inner
}

// TransportError is returned by Client.CreateDocument
// when the request fails at the network level (connection, timeout, I/O).
type TransportError struct {
	Inner error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send document: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *TransportError) Unwrap() error {
	return e.Inner
}

// RemoteRejectedError is returned by Client.CreateDocument when the registry
// responds with a non-2xx status code. Body carries the response body for diagnostics.
type RemoteRejectedError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("document rejected by registry: status code %d, body: %q", e.StatusCode, e.Body)
}
