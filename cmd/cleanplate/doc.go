// Package main hosts the cleanplate CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into cleaning
// runs, profile scaffolding, cache inspection, fit reporting, environment
// checks, and log review. It centralizes profile resolution and structured
// logging setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
