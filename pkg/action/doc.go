// Package action connects state objects to the external matching backend.
package action
