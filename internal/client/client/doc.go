// Package client contains the transport side of the candidate client.
//
// # Overview
//
// The package provides:
//  1. The backend contract, split by concern (AuthClient, ProfileClient,
//     ApplicationsClient, SurveyClient) and combined in Client.
//  2. HTTPClient, a JSON-over-HTTP implementation that adds the bearer token
//     and a request id to every call and maps HTTP status codes to sentinel
//     errors.
//  3. Local database bootstrap (InitDatabase, RunMigrations) applying the
//     embedded goose migrations to an SQLite file.
//
// # Error Handling
//
// 401/403 map to ErrUnauthorized; 5xx, connection failures and timeouts map
// to ErrUnavailable; any other non-2xx status yields *APIError. Match with
// errors.Is / errors.As.
package client
