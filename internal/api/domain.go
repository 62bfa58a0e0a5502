package api

import "github.com/JaimeStill/curator/internal/products"

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Products products.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(rt *Runtime) *Domain {
	return &Domain{
		Products: products.New(
			rt.Database.Connection(),
			rt.Storage,
			rt.Logger,
			rt.Pagination,
		),
	}
}
