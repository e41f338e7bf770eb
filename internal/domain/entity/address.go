package entity

// Address dirección postal india (state_code = código GST de dos dígitos).
type Address struct {
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	StateCode string `json:"state_code"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}
