// Package nntp implements a synchronous client for the Network News
// Transfer Protocol (RFC 3977) suitable for reading and posting articles
// against a single remote news server over one stream connection.
//
// The package is a protocol client only: it does not cache articles,
// multiplex commands over a connection, pool connections, or negotiate
// TLS/AUTHINFO. A Session owns exactly one underlying stream and must not
// be used from more than one goroutine at a time.
package nntp
