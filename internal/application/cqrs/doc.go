// Package cqrs holds the pieces every command and query handler shares: guards, declarative
// validation with repository-backed checks, the logged/traced/metered operation envelope, and
// helpers for batched enrichment of read models.
package cqrs
