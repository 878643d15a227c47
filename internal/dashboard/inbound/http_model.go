package inbound

import "time"

type CheckInRequest struct {
	NationalID  string `json:"national_id"`
	SchoolID    int64  `json:"school_id,string"`
	TableNumber int32  `json:"table_number"`
}

type CheckInResponse struct {
	ID        int64     `json:"id,string"`
	CheckedAt time.Time `json:"checked_at"`
}

func (CheckInResponse) Message() string {
	return "The voter has been checked in."
}

type SchoolParticipationResponse struct {
	SchoolID   int64  `json:"school_id,string"`
	SchoolName string `json:"school_name"`
	CheckedIn  int64  `json:"checked_in"`
}

type SummaryResponse struct {
	TotalCheckIns   int64                         `json:"total_check_ins"`
	VerifiedParties int64                         `json:"verified_parties"`
	Referrals       int64                         `json:"referrals"`
	BySchool        []SchoolParticipationResponse `json:"by_school"`
	GeneratedAt     time.Time                     `json:"generated_at"`
}

type SchoolResponse struct {
	ID        int64   `json:"id,string"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Tables    int32   `json:"tables"`
}

type SchoolsResponse struct {
	Schools []SchoolResponse `json:"schools"`
}
