// Package statemem tracks which states are currently active.
//
// Activity is kept apart from the states themselves: a State's identity is fixed at
// registration, while Memory changes after every transition and every successful find.
package statemem
