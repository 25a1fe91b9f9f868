// Package source opens vote datasets from files, HTTP endpoints and MongoDB.
//
// A location is either a plain file path or a URI:
//
//	votes.json
//	file:///data/senate.json
//	https://example.org/senate.json
//	mongodb://localhost:27017/votes?nodes=senators&links=agreements
//
// HTTP bodies can be cached through a [cache.Cache]. Fetch failures are
// returned immediately; nothing is retried.
package source
