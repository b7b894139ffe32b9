// Package config loads the run configuration.
//
// Settings come from a YAML run file read with viper, overridden by
// AES_RESULTS_* environment variables. A .env file next to the run file or
// in the working directory is loaded first, so secrets such as the Jacker
// cookie can stay out of the run file. Nested keys map to environment names
// by upper-casing and replacing dots with underscores, for example
// AES_RESULTS_FETCH_WORKERS.
package config
