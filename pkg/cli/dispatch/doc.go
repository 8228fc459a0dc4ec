// Package dispatch turns a parsed command line into exactly one lifecycle
// action and runs it.
//
// An Intent records which action was selected. The Resolver fills in a
// missing cluster id from the cluster memory, and the Engine acquires the
// providers, times the action, maps every failure onto an exit state and
// releases the providers on every path.
package dispatch
