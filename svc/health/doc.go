// Package health records daily wellness check-ins (mood, sleep, water)
// and derives rule-based insights from them for plans that carry the ai
// feature. It also wraps the public openFDA drug label API.
package health
