package intake

import (
	"errors"
	"fmt"

	"github.com/viant/chatapproval/service/dao"
)

var (
	// ErrInvalidRequest is returned for missing or malformed order fields
	ErrInvalidRequest = errors.New("intake: invalid request")

	// ErrOrderExists is returned when an active order already uses the id
	ErrOrderExists = fmt.Errorf("%w: order already exists", ErrInvalidRequest)

	// ErrTransportUnavailable is returned when the chat channel is not ready
	ErrTransportUnavailable = errors.New("intake: transport unavailable")

	// ErrDelivery is returned when a message or attachment could not be sent
	ErrDelivery = errors.New("intake: delivery failed")

	// ErrPersistence is returned when the new order could not be flushed
	ErrPersistence = dao.ErrPersistence
)
