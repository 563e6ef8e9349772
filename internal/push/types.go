package push

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Client posts messages to the FCM legacy HTTP endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	serverKey  string
	limiter    *rate.Limiter
}

// Message is the FCM request body. To is the receiver's device token.
type Message struct {
	To   string `json:"to"`
	Data Data   `json:"data"`
}

// Data is the payload the mobile client reads to render an invitation.
type Data struct {
	Action        string `json:"action"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	ReservationID string `json:"id_reservation"`
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
}

// response is the part of the FCM reply that reports per-message failures.
type response struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}
