package builder

import (
	"context"

	"blocklists/pkg/domain"
)

//go:generate mockgen -package mockbuilder -source=interface.go -destination=mock/mockbuilder.go *
type Publisher interface {
	Publish(ctx context.Context, c domain.Category, set domain.Set) error
	Location() string
}
