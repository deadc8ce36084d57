// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Every package that needs configuration declares its own Config struct
// with `env` tags and calls config.Load (or MustLoad) on it. Parsed
// configurations are cached per type, so repeated loads are cheap and
// consistent across the process.
package config
