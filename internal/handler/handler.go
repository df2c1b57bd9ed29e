// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds path parameters and JSON bodies through the validation package,
// calls the service layer and maps domain errors to HTTP errors.
package handler
