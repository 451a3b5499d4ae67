// Package movie provides CRUD and external-catalog search operations
// for the user's movie collection.
//
// All operations go through the shared api.Client, which attaches the
// session's bearer token. Ownership is enforced by the backend; acting
// on another user's movie surfaces as an authorization error.
//
// Create and Update validate their fields locally before any network
// call, mirroring the backend's constraints. Search short-circuits on
// a blank query without touching the network.
//
// # Usage
//
//	svc := movie.NewService(client, logger)
//
//	created, err := svc.Create(ctx, movie.Fields{
//	    Title:    "Dune",
//	    Year:     2021,
//	    Director: "D. Villeneuve",
//	    Genre:    "Sci-Fi",
//	})
//
//	movies, err := svc.List(ctx)
package movie
