// Package stores provides the backing store strategies for the in-memory Event Log.
//
// Two strategies implement the same Store interface:
//   - GrowableStore: unbounded, grows on demand
//   - BoundedStore: fixed capacity allocated up front, rejects records once full
//
// Stores are not synchronized. The owning recorder serializes all access with its own mutex.
package stores
