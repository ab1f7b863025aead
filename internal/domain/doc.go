// Package domain holds the core business entities shared across services:
// contacts, lead scores, and campaign targeting types. It has no dependencies
// on storage or transport.
package domain
