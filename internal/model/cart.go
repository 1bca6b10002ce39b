package model

// ApplyOfferRequest represents the request payload for applying an offer to a cart.
type ApplyOfferRequest struct {
	CartValue    int64 `json:"cart_value"`
	RestaurantID int64 `json:"restaurant_id"`
	UserID       int64 `json:"user_id"`
}

// ApplyOfferResponse carries the cart value after the matching offer, if any.
type ApplyOfferResponse struct {
	CartValue int64 `json:"cart_value"`
}
