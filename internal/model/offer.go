package model

// OfferRequest represents the request payload for registering an offer.
type OfferRequest struct {
	RestaurantID int64    `json:"restaurant_id"`
	OfferType    string   `json:"offer_type"`
	OfferValue   int64    `json:"offer_value"`
	Segments     []string `json:"segments"`
}

// OfferResponse acknowledges a registered offer.
type OfferResponse struct {
	ResponseMsg string `json:"response_msg"`
}

// ResponseMsgSuccess is the acknowledgement returned for an accepted offer.
const ResponseMsgSuccess = "success"
