package services

import "errors"

// Business-rule errors the handlers translate into HTTP statuses.
var (
	// ErrInvalidCredentials is returned for every login failure,
	// regardless of whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for every token failure: missing,
	// malformed, expired, bad signature, or a user that no longer
	// exists. The causes are deliberately not distinguished.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrWrongPassword is returned when the current password supplied
	// to a password update does not match.
	ErrWrongPassword = errors.New("current password is incorrect")

	// ErrEmailTaken is returned when a signup or update would reuse an
	// email already registered to another user.
	ErrEmailTaken = errors.New("email already in use")

	// ErrForbidden is returned when the actor's role or ownership does
	// not permit the operation.
	ErrForbidden = errors.New("not authorized to perform this action")

	// ErrOwnStoreRating is returned when a store owner tries to rate
	// their own store.
	ErrOwnStoreRating = errors.New("you cannot rate your own store")

	// ErrSelfDelete is returned when an admin tries to delete their own
	// account.
	ErrSelfDelete = errors.New("admin cannot delete their own account")

	// ErrNotAStoreOwner is returned when an admin creates a store for a
	// user that does not hold the store_owner role.
	ErrNotAStoreOwner = errors.New("the specified user is not a store owner")
)
