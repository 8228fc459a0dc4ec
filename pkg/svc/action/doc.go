// Package action implements the lifecycle actions bibigrid can run against
// an opened provider set: version, list, check, create, terminate, ide and
// update.
//
// Every action returns an exit code and an error. The code carries the
// action's own outcome (for example 1 when the requested cluster does not
// exist); a non-nil error means the action failed unexpectedly and is turned
// into exit state 2 by the dispatcher.
package action
