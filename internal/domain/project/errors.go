package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidID indicates a blank or reserved project ID.
	ErrInvalidID = errors.New("invalid project id")
	// ErrDuplicateID indicates the project ID is already registered.
	ErrDuplicateID = errors.New("project id already registered")
	// ErrUnknownStep indicates a step name outside the catalog.
	ErrUnknownStep = errors.New("unknown step")
	// ErrUnknownType indicates a request type other than Product or Marketing.
	ErrUnknownType = errors.New("unknown request type")
	// ErrMalformedCollection indicates a document whose top level is not an
	// object of project objects.
	ErrMalformedCollection = errors.New("malformed project collection")
	// ErrNotPersisted indicates the change was applied in memory but the
	// project document could not be written.
	ErrNotPersisted = errors.New("change not persisted")
)
