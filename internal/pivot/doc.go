// Package pivot merges standing records from many events into one row per
// team and reshapes them into a wide table with one column per event.
//
// Records are merged through an Aggregator in a fixed order. The first finish
// recorded for a team and event wins; later duplicates are discarded. Event
// columns appear in the order their events were first accepted, so the same
// input always yields the same table.
package pivot
