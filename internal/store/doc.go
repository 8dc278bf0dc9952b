// Package store defines the persistence ports used by the services.
// Implementations live under internal/platform; the services only see the
// interfaces and the sentinel errors declared here.
package store
