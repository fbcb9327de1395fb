package leavebalance

type LeaveBalanceResponse struct {
	ID               string `json:"id"`
	PersonnelID      string `json:"personnel_id"`
	Year             int    `json:"year"`
	VacationBalance  string `json:"vacation_balance"`
	SickBalance      string `json:"sick_balance"`
	EmergencyBalance string `json:"emergency_balance"`
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:               b.ID.String(),
		PersonnelID:      b.PersonnelID.String(),
		Year:             b.Year,
		VacationBalance:  b.VacationBalance.String(),
		SickBalance:      b.SickBalance.String(),
		EmergencyBalance: b.EmergencyBalance.String(),
	}
}
