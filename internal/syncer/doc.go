// Package syncer coordinates remote list fetching for the MedEscala client:
// request supersession and self-throttling (RequestGate), trailing-edge
// debouncing of reactive reloads (Debouncer), filter-key change detection,
// fetch-merge-commit orchestration (Coordinator), optimistic batch mutation
// with per-item rollback (Mutator), and selection tracking.
//
// The package is UI- and transport-agnostic: callers inject fetch and mutate
// functions and observe state snapshots through OnChange listeners. All
// state mutation happens under the coordinator's mutex; a result is
// committed only while its gate token is still current, which substitutes
// for any stronger ordering between overlapping loads.
package syncer
