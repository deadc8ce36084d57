// Package email provides a provider-agnostic interface for transactional
// email with a Postmark implementation for production and a file-based
// sender for development.
package email
