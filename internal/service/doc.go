// Package service provides application-level services. The account service
// lives here; the access gate, the token service and the flashcard pipeline
// each have their own subpackage.
package service
