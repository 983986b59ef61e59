// Package account resolves login identities to accounts.
//
// Resolver.Resolve is the only place accounts are created. It relies on the
// Store to reject a second account with the same email (ErrConflict) and
// re-reads the winning row when that happens, so concurrent first logins for
// one email, from any number of server instances, converge on one account.
//
// Stores: MemoryStore in this package, PostgreSQL in pgstore and SQLite in
// sqlitestore.
package account
