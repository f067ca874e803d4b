// Package logs reads back the files the structured logger writes.
//
// It keeps memory bounded while tailing: only the requested number of
// trailing lines is ever held, so a long-running cache full of verbose
// stage logs stays cheap to inspect from the CLI.
package logs
