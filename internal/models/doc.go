// Package models defines the core domain models for ShareIn.
//
// # Models
//
//   - User: a registered account, the source of identity snapshots
//   - Identity: a point-in-time copy of a user's display fields
//   - Share: one user's financial stake within a single expense
//   - Expense: a shared cost with its ordered participant shares
//   - Group: a named collection of member snapshots with a creator
//
// # Design Principles
//
//  1. **Snapshot semantics**: expenses and groups embed Identity copies,
//     never live references. Updating a user's profile does not
//     retroactively change historical records; an embedded snapshot is
//     refreshed only by the next write that touches its field.
//  2. **Exclusive ownership**: an Expense owns its Shares and a Group owns
//     its member list. Nothing outside the owning record references them.
//  3. **Decimal money**: all monetary fields use decimal.Decimal so share
//     arithmetic is exact.
//  4. **Versioned writes**: Expense and Group carry a version stamp that the
//     store compares on update, so concurrent writers lose cleanly instead
//     of corrupting a record.
package models
