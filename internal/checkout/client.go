// Package checkout wraps the hosted payment provider (Omise).  It is
// the only place booking totals are converted to integer minor units,
// and the only place provider charge objects are created or fetched.
// Handlers verify payments by re-fetching the charge from the provider
// rather than trusting webhook payloads.
package checkout

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/omise/omise-go"
    "github.com/omise/omise-go/operations"

    "github.com/courtside/tennis-booking/internal/model"
    "github.com/courtside/tennis-booking/internal/pricing"
)

// Client talks to the payment provider.  Currency is fixed per
// deployment (lower-case ISO code) and the return URI is where the
// provider redirects the player after the hosted checkout step.
type Client struct {
    api       *omise.Client
    Currency  string
    ReturnURI string
}

// New builds a provider client from the configured key pair.
func New(publicKey, secretKey, currency, returnURI string) (*Client, error) {
    api, err := omise.NewClient(publicKey, secretKey)
    if err != nil {
        return nil, err
    }
    return &Client{api: api, Currency: strings.ToLower(currency), ReturnURI: returnURI}, nil
}

// Session is what the HTTP layer hands back to the player: the charge
// id to poll on and the URI to redirect to.
type Session struct {
    ChargeID     string `json:"charge_id"`
    AuthorizeURI string `json:"authorize_uri"`
    AmountCents  int64  `json:"amount_cents"`
    Currency     string `json:"currency"`
}

// CreateSession opens a hosted checkout charge covering one or more
// bookings from a single selection.  The amount is the sum of the
// bookings' totals converted to cents here and nowhere else; booking
// ids and the payer travel in the charge metadata so the webhook can
// route the completion back without a lookup table.
func (c *Client) CreateSession(source string, payerID uint64, bookings []*model.Booking, idempotencyKey string) (*Session, error) {
    if len(bookings) == 0 {
        return nil, fmt.Errorf("no bookings to charge")
    }
    var total float64
    ids := make([]string, 0, len(bookings))
    for _, b := range bookings {
        total += b.TotalCost
        ids = append(ids, strconv.FormatUint(b.ID, 10))
    }
    amount := pricing.Cents(total)

    charge := &omise.Charge{}
    err := c.api.Do(charge, &operations.CreateCharge{
        Amount:    amount,
        Currency:  c.Currency,
        Source:    source,
        ReturnURI: c.ReturnURI,
        Description: fmt.Sprintf("court booking %s", strings.Join(ids, ",")),
        Metadata: map[string]interface{}{
            "booking_ids":     strings.Join(ids, ","),
            "payer_id":        strconv.FormatUint(payerID, 10),
            "idempotency_key": idempotencyKey,
        },
    })
    if err != nil {
        return nil, err
    }
    return &Session{
        ChargeID:     charge.ID,
        AuthorizeURI: charge.AuthorizeURI,
        AmountCents:  amount,
        Currency:     c.Currency,
    }, nil
}

// RetrieveCharge fetches a charge from the provider by id.
func (c *Client) RetrieveCharge(chargeID string) (*omise.Charge, error) {
    charge := &omise.Charge{}
    if err := c.api.Do(charge, &operations.RetrieveCharge{ChargeID: chargeID}); err != nil {
        return nil, err
    }
    return charge, nil
}

// ChargePaid reports whether a fetched charge has actually settled.
func ChargePaid(ch *omise.Charge) bool {
    return ch != nil && ch.Paid && ch.Status == omise.ChargeSuccessful
}

// BookingIDs parses the booking ids out of charge metadata.
func BookingIDs(ch *omise.Charge) []uint64 {
    raw, _ := ch.Metadata["booking_ids"].(string)
    if raw == "" {
        return nil
    }
    parts := strings.Split(raw, ",")
    out := make([]uint64, 0, len(parts))
    for _, p := range parts {
        if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil && id > 0 {
            out = append(out, id)
        }
    }
    return out
}

// PayerID parses the payer id out of charge metadata, or 0.
func PayerID(ch *omise.Charge) uint64 {
    raw, _ := ch.Metadata["payer_id"].(string)
    id, _ := strconv.ParseUint(raw, 10, 64)
    return id
}
