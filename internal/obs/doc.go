// Package obs mints run identities used to correlate log lines across one
// pipeline invocation.
//
// The core itself is single-threaded per invocation (§5 CONCURRENCY &
// RESOURCE MODEL), but §5 anticipates a future parallelized driver where
// "each Grad instance is independent given its own gensym" while
// registrations into the shared global environment must still be
// serialized. A run identity is the seam that makes that independence
// observable today, in logs, without the core itself becoming concurrent.
package obs
