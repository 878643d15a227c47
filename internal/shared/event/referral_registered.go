package event

const ReferralRegisteredDestination string = "referral_registered"
const ReferralRegisteredConsumerDashboard string = "referral_registered_dashboard"

type ReferralRegisteredMessage struct {
	ReferralID  int64  `json:"referral_id"`
	NationalID  string `json:"national_id"`
	School      string `json:"school"`
	TableNumber int32  `json:"table_number"`
}
