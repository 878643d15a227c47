package event

const PartyVerifiedDestination string = "party_verified"
const PartyVerifiedConsumerDashboard string = "party_verified_dashboard"

type PartyVerifiedMessage struct {
	NationalID    string `json:"national_id"`
	DispatchPhone string `json:"dispatch_phone"`
	ReferenceID   string `json:"reference_id"`
}
