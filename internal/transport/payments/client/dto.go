package client

type transferData struct {
	Destination string `json:"destination"`
}

type intentRequest struct {
	Amount               int64             `json:"amount"`
	Currency             string            `json:"currency"`
	Customer             string            `json:"customer,omitempty"`
	CaptureMethod        string            `json:"capture_method"`
	TransferData         *transferData     `json:"transfer_data,omitempty"`
	ApplicationFeeAmount int64             `json:"application_fee_amount,omitempty"`
	TransferGroup        string            `json:"transfer_group,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

type intentResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Transfer string `json:"transfer,omitempty"`
}

type transferRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Destination   string            `json:"destination"`
	TransferGroup string            `json:"transfer_group,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type transferResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type refundRequest struct {
	PaymentIntent string            `json:"payment_intent"`
	Amount        int64             `json:"amount"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type refundResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
