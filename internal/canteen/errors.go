package canteen

import (
	"canteen-service/internal/repository"
	"errors"
)

var (
	ErrDuplicateOrder    = errors.New("canteen: item already ordered today")
	ErrInsufficientFunds = errors.New("canteen: insufficient funds")
	ErrItemNotFound      = errors.New("canteen: item not found")
	ErrOrderNotFound     = errors.New("canteen: order not found")
	ErrForbidden         = errors.New("canteen: forbidden")
	ErrNotYetServed      = errors.New("canteen: order not yet served")
	ErrInvalidAmount     = errors.New("canteen: invalid amount")

	ErrUserNotFound       = errors.New("canteen: user not found")
	ErrRequestNotFound    = errors.New("canteen: purchase request not found")
	ErrRequestClosed      = errors.New("canteen: purchase request already decided")
	ErrOrderClosed        = errors.New("canteen: order is closed")
	ErrAlreadyReceived    = errors.New("canteen: order already received")
	ErrReviewNotFound     = errors.New("canteen: review not found")
	ErrAlreadyReviewed    = errors.New("canteen: item already reviewed")
	ErrNotOrdered         = errors.New("canteen: item was never ordered")
	ErrUsernameTaken      = errors.New("canteen: username already taken")
	ErrInvalidCredentials = errors.New("canteen: invalid username or password")
	ErrInvalidInput       = errors.New("canteen: invalid input")
)

// translate maps a repository not-found error onto the domain error for the
// collection being read and passes everything else through.
func translate(err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}
