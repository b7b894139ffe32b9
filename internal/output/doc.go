// Package output writes run results to disk.
//
// Tables are written as UTF-8, comma-delimited CSV through gocsv. A Dir
// resolves file names against the configured output directory, creating it
// on first use. Results can additionally be stored in a SQLite database for
// ad-hoc querying across runs.
package output
