package models

// Request models
type RegisterRequest struct {
	UserID    string `json:"userId" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	BirthDay  string `json:"birthDay" binding:"required"`
}

type AppointmentRequest struct {
	UserID string `json:"userId" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Note   string `json:"note"`
}

type SingleReminderRequest struct {
	UserID string `json:"userId"`
}

// Response models
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CheckUserResponse struct {
	Registered bool `json:"registered"`
}

type UserResponse struct {
	Success       bool         `json:"success"`
	NotRegistered bool         `json:"notRegistered,omitempty"`
	Message       string       `json:"message,omitempty"`
	User          *UserProfile `json:"user,omitempty"`
}

type SugarWriteResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	NotRegistered bool   `json:"notRegistered,omitempty"`
	IsDuplicate   bool   `json:"isDuplicate,omitempty"`
}

type SugarRecordsResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Records    []SugarRecord `json:"records"`
	Pagination *Pagination   `json:"pagination"`
}

type SugarChartResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message,omitempty"`
	Labels       []string `json:"labels"`
	BeforeMeal   []*int   `json:"beforeMeal"`
	AfterMeal    []*int   `json:"afterMeal"`
	TotalRecords int      `json:"totalRecords"`
}

type MedicationRecordsResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Records    []MedicationRecord `json:"records"`
	Pagination *Pagination        `json:"pagination"`
}

type AppointmentRecordsResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Appointments []Appointment `json:"appointments"`
	Pagination   *Pagination   `json:"pagination,omitempty"`
	TotalRecords int           `json:"totalRecords,omitempty"`
}
