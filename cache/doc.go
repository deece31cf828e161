// Package cache is an in-memory key/value store whose entries expire.
//
// Every entry has its own lifespan. Expired entries are never observed:
// reads check expiry lazily and a background sweep removes what is left.
// Entries stored with RefreshOnRead never expire from the caller's point of
// view; reading one that has lapsed re-runs its producer and restarts its
// lifespan.
package cache
