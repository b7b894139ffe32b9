// Package pipeline runs one batch: fetch every configured event, merge the
// results in configured order and pivot them into wide tables.
//
// Events are fetched concurrently by a bounded worker pool. Each fetch stores
// its outcome in its own slot, so the merge that follows sees the events in
// the order they were configured no matter which fetch finished first. A
// failed event is logged and contributes nothing; it never stops its
// siblings.
package pipeline
