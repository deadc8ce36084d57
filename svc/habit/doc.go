// Package habit tracks user habits and their daily completions, with
// streak statistics. New habits are gated by the entitlement evaluator.
package habit
