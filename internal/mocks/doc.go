// Package mocks provides hand-written mock implementations of the service
// and store interfaces for use in tests.
package mocks
