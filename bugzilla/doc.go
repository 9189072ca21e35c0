// Package bugzilla provides a read-only client for the Bugzilla REST API.
//
// The client fetches bug records by ID from a Bugzilla instance and
// deserializes them into typed records. It issues a single blocking GET per
// call and performs no retries, caching, or write operations.
//
// # Usage
//
// Create a client with the instance host URL and query bugs by ID:
//
//	client, err := bugzilla.New(
//		"https://bugzilla.example.com",
//		bugzilla.WithAPIKey("your-api-key"),
//		bugzilla.WithFields([]string{"_default", "flags"}),
//		bugzilla.WithPagination(bugzilla.Limit(100)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	bugs, err := client.GetBugs(ctx, []string{"1", "2", "3"})
//
// A client is immutable after construction and safe for concurrent use.
//
// # Schema tolerance
//
// Bug, User, Flag and ListResponse records keep any JSON keys that do not
// match a named field in an Extra map, so fields added by newer Bugzilla
// versions are preserved rather than dropped.
//
// # Error handling
//
// Transport failures and decode failures are wrapped and returned as-is.
// Bugzilla error envelopes (and non-2xx statuses) are mapped to *APIError.
// GetBug returns an error wrapping ErrNotFound when the server knows no bug
// with the requested ID.
//
// API documentation:
// https://bugzilla.redhat.com/docs/en/html/api/core/v1/general.html
package bugzilla
