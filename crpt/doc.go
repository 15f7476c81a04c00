/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package crpt provides a rate-limited client for the CRPT ("Chestny Znak")
// registry API. The client submits documents with a detached signature and
// enforces a fixed cap on the number of outbound requests per time window.
//
// The window budget is a hard reset: every period the number of available
// permits is restored to the configured limit regardless of how many were
// consumed, so up to 2x the limit may pass across a window boundary. Callers
// beyond the cap block inside CreateDocument until capacity is replenished
// or their context is cancelled.
//
//	cfg := crpt.NewConfig()
//	// ... load cfg with config.Loader ...
//	client, err := crpt.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	err = client.CreateDocument(ctx, doc, signature)
package crpt
