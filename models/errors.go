package models

import "errors"

var (
	// ErrCategoryNotFound is returned when a category lookup matches no row.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound is returned when no user has the requested username or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateProduct is returned when a category already holds a product with the same name.
	ErrDuplicateProduct = errors.New("product already exists in category")
	// ErrUsernameTaken is returned when registering a username that is already in use.
	ErrUsernameTaken = errors.New("username already taken")
)
