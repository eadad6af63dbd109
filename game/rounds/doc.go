// Package rounds discovers the per-round state files the match runner
// writes while a game is in progress.
//
// The runner materializes every round as rounds/<number>/state.json. Reader
// scans such a directory, lists the rounds that have a state file, and loads
// individual snapshots through the state package. All access is read-only;
// the runner owns the files.
package rounds
