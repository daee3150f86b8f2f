package models

// UserProfile represents a registered user row in the Users sheet
type UserProfile struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	BirthDay  string `json:"birthDay"`
	Age       string `json:"age"`
}

// SugarRecord represents one blood-sugar reading row in the SugarRecords sheet.
// Type and Period hold the display labels stored in the sheet, not the
// two-letter wire codes.
type SugarRecord struct {
	UserID string `json:"userId"`
	Sugar  string `json:"sugar"`
	Type   string `json:"type"`
	Period string `json:"period"`
	Date   string `json:"date"`
}

// MedicationRecord represents one medication adherence row in the
// MedicationLogs sheet
type MedicationRecord struct {
	Date         string `json:"date"`
	TimeOfDay    string `json:"timeOfDay"`
	MealRelation string `json:"mealRelation"`
	Status       string `json:"status"`
	LogTime      string `json:"logTime"`
}

// Appointment represents one doctor appointment row in the
// DoctorAppointments sheet
type Appointment struct {
	UserID string `json:"-"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Note   string `json:"note"`
}

// Pagination describes one page of a listing
type Pagination struct {
	CurrentPage    int  `json:"currentPage"`
	TotalPages     int  `json:"totalPages"`
	TotalRecords   int  `json:"totalRecords"`
	RecordsPerPage int  `json:"recordsPerPage"`
	HasNext        bool `json:"hasNext"`
	HasPrev        bool `json:"hasPrev"`
	NextPage       *int `json:"nextPage"`
	PrevPage       *int `json:"prevPage"`
}

// WeeklyChart is the fixed-shape series for the sugar chart view: two
// labeled slots (morning, evening) per calendar date, values null when no
// matching reading exists.
type WeeklyChart struct {
	Labels       []string `json:"labels"`
	BeforeMeal   []*int   `json:"beforeMeal"`
	AfterMeal    []*int   `json:"afterMeal"`
	TotalRecords int      `json:"totalRecords"`
}
