// Package cli implements the command-line interface for aes-results.
//
// The cli package provides the Cobra-based CLI with commands to build the
// pivoted standings table, write club rankings import files, and export the
// Jacker team list and registrations. It wires configuration, logging, the
// source adapters and the output writers together for each command.
package cli
