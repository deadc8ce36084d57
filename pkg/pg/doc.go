// Package pg wires PostgreSQL connectivity for LifeHub: pgx pool creation
// with startup retries, goose migrations, error classification helpers,
// and a healthcheck closure for the HTTP health endpoint.
package pg
