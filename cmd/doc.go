// Package cmd implements the calagent command line interface.
package cmd
