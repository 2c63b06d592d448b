// Package client wires the shiftsync runtime together: the REST adapter,
// the offline snapshot cache, the list sync coordinator, the optimistic
// payment mutator, selection state, and the background jobs.
//
// [App] is the surface a UI layer talks to; it exposes the published list
// state, filter and search entry points, and the batch payment operations.
package client
