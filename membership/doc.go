// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package membership reads organization members, their roles and their share
balances.

Both readers implement governance.BalanceReader and auth.RoleLookup:

  - SQLReader: the member, share_type and share_balance tables
  - Static: an in-memory registry for tests and development

Only members' balances count. A user holding shares of an organization they
no longer belong to has no voting power there.

The governance engine only reads through this package. AddMember,
AddShareType and SetBalance exist for provisioning and tests.
*/
package membership
