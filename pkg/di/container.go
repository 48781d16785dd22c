// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pgbcp/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	storeFactory api.StoreFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		storeFactory: api.NewStoreFactory(),
	}
}

// GetStoreFactory returns the report store factory
func (c *Container) GetStoreFactory() api.StoreFactory {
	return c.storeFactory
}

// SetStoreFactory allows overriding the report store factory (for testing)
func (c *Container) SetStoreFactory(factory api.StoreFactory) {
	c.storeFactory = factory
}
