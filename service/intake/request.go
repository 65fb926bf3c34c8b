package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/identity"
)

// Attachments holds optional image references; each value is an http(s)
// URL, a data:image base64 URL, or a storage URL/local path.
type Attachments struct {
	Identity     string `json:"identity,omitempty"`
	FlightTicket string `json:"flight_ticket,omitempty"`
	HotelTicket  string `json:"hotel_ticket,omitempty"`
}

// attachment is a named attachment slot
type attachment struct {
	name    string
	value   string
	caption string
}

// ordered returns present attachments in delivery order
func (a *Attachments) ordered() []*attachment {
	if a == nil {
		return nil
	}
	var ret []*attachment
	for _, candidate := range []*attachment{
		{name: "identity", value: a.Identity, caption: "Passport"},
		{name: "flight_ticket", value: a.FlightTicket, caption: "Flight ticket"},
		{name: "hotel_ticket", value: a.HotelTicket, caption: "Hotel ticket"},
	} {
		candidate.value = strings.TrimSpace(candidate.value)
		if candidate.value != "" {
			ret = append(ret, candidate)
		}
	}
	return ret
}

// Request represents a new order
type Request struct {
	OrderID     string       `json:"orderId"`
	Recipients  []string     `json:"recipients"`
	Message     string       `json:"message"`
	CallbackURL string       `json:"callbackUrl,omitempty"`
	Attachments *Attachments `json:"attachments,omitempty"`
}

// Handle identifies a created order
type Handle struct {
	OrderID    string       `json:"orderId"`
	Recipients []string     `json:"recipients"`
	Status     model.Status `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Validate checks required fields and returns the normalized, de-duplicated
// recipient keys.
func (r *Request) Validate() ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: request was nil", ErrInvalidRequest)
	}
	var missing []string
	if strings.TrimSpace(r.OrderID) == "" {
		missing = append(missing, "orderId")
	}
	if len(r.Recipients) == 0 {
		missing = append(missing, "recipients")
	}
	if strings.TrimSpace(r.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if strings.ContainsAny(strings.TrimSpace(r.OrderID), " \t\r\n") {
		return nil, fmt.Errorf("%w: orderId must be a single token: %q", ErrInvalidRequest, r.OrderID)
	}
	keys := make([]string, 0, len(r.Recipients))
	seen := map[string]bool{}
	for _, recipient := range r.Recipients {
		key := identity.Normalize(recipient)
		if key == "" {
			return nil, fmt.Errorf("%w: invalid recipient %q", ErrInvalidRequest, recipient)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}
