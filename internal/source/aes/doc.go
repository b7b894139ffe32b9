// Package aes reads event standings from the Advanced Event Systems results
// API (results.advancedeventsystems.com).
//
// An event is loaded in two steps: the event document lists the divisions,
// then each division's standings come from the OData endpoint.
package aes
