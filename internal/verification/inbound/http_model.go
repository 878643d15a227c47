package inbound

type phoneParts struct {
	Country string `json:"phone_country"`
	Area    string `json:"phone_area"`
	Number  string `json:"phone_number"`
}

type RequestCodeRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	NationalID string `json:"national_id"`
	phoneParts
}

type RequestCodeResponse struct {
	State            string `json:"state"`
	MaskedPhone      string `json:"masked_phone"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

func (RequestCodeResponse) Message() string {
	return "We sent a verification code to your phone."
}

type ConfirmCodeRequest struct {
	NationalID string `json:"national_id"`
	Code       string `json:"code"`
	phoneParts
}

type ConfirmCodeResponse struct {
	State       string `json:"state"`
	ReferenceID string `json:"reference_id,omitempty"`
}

func (ConfirmCodeResponse) Message() string {
	return "Your phone has been verified."
}

type StatusResponse struct {
	State            string `json:"state"`
	MaskedPhone      string `json:"masked_phone"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	ReferenceID      string `json:"reference_id,omitempty"`
}

type ResetRequest struct {
	NationalID string `json:"national_id"`
	phoneParts
}

type ResetResponse struct {
	State string `json:"state"`
}

func (ResetResponse) Message() string {
	return "The verification was restarted."
}
