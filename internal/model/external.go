package model

// Payloads exchanged with the school-core collaborator API.

type AuthTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type OwnershipResponse struct {
	ClassID string `json:"class_id"`
	ActorID string `json:"actor_id"`
	Owned   bool   `json:"owned"`
}

type AttendanceResponse struct {
	StudentID string  `json:"student_id"`
	Period    string  `json:"period"`
	Rate      float64 `json:"rate"`
}

type EnrollmentResponse struct {
	ClassID    string   `json:"class_id"`
	StudentIDs []string `json:"student_ids"`
}
