// Package session owns the bearer credential of the candidate client.
//
// The Store is the only component that writes the credential. It loads the
// persisted value at start, saves it after a successful verification and
// evicts it on logout or when any authenticated call is rejected. Other
// components read the current value through TokenSource and react to
// evictions through OnEvict.
package session
