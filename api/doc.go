// Package api provides the HTTP client for the cinelist backend API.
//
// All requests from the auth and movie services go through a single
// Client. The client attaches the session's bearer token to outgoing
// requests when one is available and translates non-2xx responses into
// *APIError values carrying the backend's error envelope (general
// message plus optional field-level validation details).
//
// The client performs no retries and no backoff; failures propagate to
// the caller unchanged.
//
// # Usage
//
//	client, err := api.NewClient(baseURL, store, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	body, err := client.Get(ctx, "/movies", nil)
//	if err != nil {
//	    var apiErr *api.APIError
//	    if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//	        // session expired, prompt for login
//	    }
//	}
package api
