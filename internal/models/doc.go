// Package models defines the core domain models for Subshare.
//
// # Models
//
//   - User: a registered account, created on signup or first federated login
//   - SubscriptionGroup: a shared subscription owned by one admin user
//   - Invitee: one invited member of a group and their payment status
//   - Payment: an immutable ledger entry recording one payer's contribution
//
// # Design Principles
//
// 1. **Typed records**: each entity has a constructor that validates the
// required fields, so malformed input is rejected before it reaches storage.
// 2. **Weak references**: relationships are ID strings, never pointers.
// A Payment references its group and payer by ID only.
// 3. **Unix timestamps**: all times are stored as Unix seconds.
//
// # Invariants
//
// A group's AdminID never changes after creation. Invitee status only moves
// from Pending to Paid. A group with Paid set has every invitee in the Paid
// status, because the only path that sets Paid also marks every invitee.
package models
