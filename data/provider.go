package data

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/pagination/data/config"
)

// ProviderSet is the wire provider set for the data package.
//
//	wire.Build(
//	    data.ProviderSet,
//	    // ... other providers
//	)
var ProviderSet = wire.NewSet(ProvideData)

// ProvideData connects the search layer. The cleanup function releases the
// client and should run on shutdown.
func ProvideData(ctx context.Context, cfg *config.Config) (*Data, func(), error) {
	return New(ctx, cfg)
}
