package inbound

import "time"

type CreateRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	NationalID  string `json:"national_id"`
	Country     string `json:"phone_country"`
	Area        string `json:"phone_area"`
	Number      string `json:"phone_number"`
	School      string `json:"school"`
	TableNumber int32  `json:"table_number"`
}

type CreateResponse struct {
	ID int64 `json:"id,string"`
}

func (CreateResponse) Message() string {
	return "The referral has been registered."
}

type ReferralResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	NationalID  string    `json:"national_id"`
	Phone       string    `json:"phone"`
	School      string    `json:"school"`
	TableNumber int32     `json:"table_number"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReferralsResponse struct {
	Referrals []ReferralResponse `json:"referrals"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r ReferralsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
