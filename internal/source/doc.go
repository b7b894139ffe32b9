// Package source defines the contract shared by the standings adapters and the
// HTTP plumbing they use.
//
// An Adapter turns one event on one results service into standing records.
// Adapters are best effort: a division that cannot be fetched is logged and
// left out, and only a failure to load the event itself is returned as an
// error. The Fetcher gives every adapter the same timeout, User-Agent, rate
// limit and retry policy.
package source
