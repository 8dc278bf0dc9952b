// Package api holds the HTTP handlers of the flashcard service: account
// registration and login, the account summary, and the generation endpoint
// that accepts notes, an image or a voice note as multipart form data.
//
// Handlers decode and validate the request, call one service, and map the
// returned error to a status code and a message that is safe to show the
// caller (see MapErrorToStatusCode and GetSafeErrorMessage). Backend failures
// keep the status the AI provider reported.
package api
