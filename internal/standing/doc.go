// Package standing defines the uniform standings record every source adapter
// produces, along with the validation applied before records are aggregated.
package standing
