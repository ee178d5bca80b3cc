// Package mocks provides mock implementations for testing the auth resolution pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository-facing port interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	profiles := mocks.NewMockProfileStore(ctrl)
//	profiles.EXPECT().GetProfile(gomock.Any(), "user-1").Return(profile, nil)
package mocks

// Generate mock for ProfileStore interface from internal/ports package.
// This creates MockProfileStore with methods for all ProfileStore interface methods:
// GetProfile, GetProfileReduced, UpdateRoles
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_store_mock.go github.com/localspot/localspot-api/internal/ports ProfileStore

// Generate mock for OwnershipStore interface from internal/ports package.
// This creates MockOwnershipStore with methods for all OwnershipStore interface methods:
// ListOwnedBusinesses, ListApprovedOwnershipRequests
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ownership_store_mock.go github.com/localspot/localspot-api/internal/ports OwnershipStore
