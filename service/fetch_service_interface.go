package service

import "context"

// FetchServiceInterface defines the contract for fetching remote resources
type FetchServiceInterface interface {
	FetchAndParse(ctx context.Context, location, errorContext string, out any) error
	FetchBytes(ctx context.Context, location, errorContext string) ([]byte, error)
}
