// Package process runs external tools in their own process group so that
// a timeout or cancellation terminates the whole tree.
package process
