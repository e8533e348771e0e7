// Package runlock implements ports.RunLock.
//
// RedisLock coordinates several service instances through a Redis key taken with
// SET NX PX and released only by its owner. LocalLock serves single-instance
// deployments without Redis.
package runlock
