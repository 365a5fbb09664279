// File: core/future/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Futures and promises for shard-confined asynchronous results. A future
// settles exactly once with a value or an error; continuations run inline
// on the settling goroutine, which for runtime work is the owning shard.
// Await bridges results out of a shard and must never be called from the
// shard itself: cooperative threads do not block on their own work.
package future
