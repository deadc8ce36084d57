// Package core defines the HTTP response envelope and error vocabulary
// shared by all LifeHub modules.
package core
