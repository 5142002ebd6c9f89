// Package domain holds errors shared by every bounded context of the shop.
package domain

import "errors"

// ErrNotImplemented marks a capability that is declared but has no behaviour yet.
var ErrNotImplemented = errors.New("not implemented")
