// Package sportwrench reads event standings from SportWrench.
//
// Three adapters share the same event and division metadata:
//
//   - Adapter reads the public REST API (api/esw).
//   - RenderedAdapter drives the single-page app through a Renderer, for
//     events whose API responses are not usable.
//   - GraphQLAdapter pages through the paginatedDivisionTeams query served by
//     events2.sportwrench.com.
//
// SportWrench sometimes serves API JSON inside an HTML <pre> element. All
// decoding goes through source.DecodeJSON, which unwraps it.
package sportwrench
