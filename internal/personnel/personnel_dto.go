package personnel

type CreatePersonnelRequest struct {
	BadgeNumber string `json:"badge_number"`
	FullName    string `json:"full_name" binding:"required"`
	Rank        string `json:"rank"`
	Email       string `json:"email" binding:"required,email"`
	DateHired   string `json:"date_hired" binding:"required"`
}

type UpdatePersonnelRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Rank     string `json:"rank"`
	Email    string `json:"email" binding:"required,email"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE RETIRED RESIGNED TRANSFERRED"`
}

type PersonnelResponse struct {
	ID          string  `json:"id"`
	BadgeNumber string  `json:"badge_number"`
	FullName    string  `json:"full_name"`
	Rank        string  `json:"rank,omitempty"`
	Email       string  `json:"email"`
	DateHired   string  `json:"date_hired"`
	Status      string  `json:"status"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}
