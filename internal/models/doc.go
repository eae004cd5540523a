// Package models defines the core domain models for the group directory.
//
// # Models
//
//   - Group: a directory entry for one WhatsApp group invite link
//   - GroupInput: the payload accepted when a group is submitted
//   - User: a registered account (username + password hash)
//
// Categories and Countries are the fixed catalogs a Group's Category and
// Country must belong to. The catalogs are enforced by the validation
// boundary, not by the store.
//
// # Design Principles
//
// 1. **Explicit defaults**: NewGroup applies every default in one place
// 2. **Nullable fields are pointers**: image_url, description and member_count
// serialize as null when absent
// 3. **Insert-only**: groups and users are never mutated after creation
package models
